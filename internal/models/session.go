// Package models defines the data model of the cast slideshow pipeline:
// the session capability bundle, the encrypted file records returned by the
// collection diff endpoint, and their decrypted counterparts.
package models

// CastSession is the capability bundle authorizing reads of one remote
// collection. It is supplied once per slideshow run and never mutated.
type CastSession struct {
	// CollectionKey is the symmetric key used to unwrap each file's
	// individual content key.
	CollectionKey []byte

	// CastToken is the opaque access token echoed into the
	// X-Cast-Access-Token header of every request.
	CastToken string
}
