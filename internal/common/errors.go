// Package common defines shared constants and sentinel errors used across
// the slideshow pipeline. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Fatal for the whole run: a diff page could not be fetched, so the
	// live file set is unknown and no per-item containment is possible.
	ErrRemote = errors.New("remote diff fetch failed")

	// Fatal for the whole run: the cast access token was rejected by the
	// server. Bypasses the consecutive-failure threshold because an
	// expired token cannot self-heal; the caller must re-pair.
	ErrAuthExpired = errors.New("cast access token expired")

	// Per-item, recoverable errors. Logged, the item skipped, and counted
	// toward the consecutive-failure threshold.
	ErrDecryption    = errors.New("decryption failed")
	ErrTransfer      = errors.New("content transfer failed")
	ErrUnknownFormat = errors.New("unrecognized media format")

	// Fatal: too many consecutive per-item failures within one pass.
	ErrTooManyFailures = errors.New("too many consecutive failures")

	// Clean end of stream: a full pass produced zero eligible items.
	ErrStreamEnded = errors.New("slideshow ended")
)
