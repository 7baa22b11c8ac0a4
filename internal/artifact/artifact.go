// Package artifact defines the renderable handle yielded to the consumer
// and the bounded window of live handles kept for display continuity.
package artifact

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Artifact is an externally-addressable handle wrapping display-ready image
// bytes. Release must be invoked exactly once when the artifact is no longer
// displayed; calling it again is a no-op.
type Artifact struct {
	// ID uniquely identifies the handle, e.g. for preview URLs and logs.
	ID string

	// ContentType is the resolved MIME type of Bytes.
	ContentType string

	data     []byte
	released atomic.Bool
	once     sync.Once
}

// New wraps data with its content type under a fresh handle.
func New(data []byte, contentType string) *Artifact {
	return &Artifact{
		ID:          uuid.NewString(),
		ContentType: contentType,
		data:        data,
	}
}

// Bytes returns the image bytes, or nil once released.
func (a *Artifact) Bytes() []byte {
	if a.released.Load() {
		return nil
	}
	return a.data
}

// Size returns the byte length of the wrapped image.
func (a *Artifact) Size() int { return len(a.data) }

// Release revokes the handle and drops the byte reference.
func (a *Artifact) Release() {
	a.once.Do(func() {
		a.released.Store(true)
		a.data = nil
	})
}

// Released reports whether Release has been called.
func (a *Artifact) Released() bool { return a.released.Load() }
