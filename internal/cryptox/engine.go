package cryptox

import (
	"context"

	"github.com/dmitrijs2005/photocast/internal/workerx"
)

type openKind int

const (
	kindSecretBox openKind = iota
	kindBlob
)

type openReq struct {
	kind       openKind
	ciphertext []byte
	nonce      []byte // secretbox nonce or XChaCha header
	key        []byte
}

// Engine runs all opening operations on a pool of dedicated worker
// goroutines, reached by request/response message passing. Large content
// decryptions therefore never block the cooperative pipeline loop.
type Engine struct {
	pool *workerx.Pool[openReq, []byte]
}

// NewEngine starts an engine with the given number of workers.
func NewEngine(workers int) *Engine {
	pool := workerx.NewPool(workers, func(r openReq) ([]byte, error) {
		switch r.kind {
		case kindSecretBox:
			return OpenSecretBox(r.ciphertext, r.nonce, r.key)
		default:
			return OpenBlob(r.ciphertext, r.nonce, r.key)
		}
	})
	return &Engine{pool: pool}
}

// OpenSecretBox unwraps a secretbox-sealed message on a worker.
func (e *Engine) OpenSecretBox(ctx context.Context, ciphertext, nonce, key []byte) ([]byte, error) {
	return e.pool.Do(ctx, openReq{kind: kindSecretBox, ciphertext: ciphertext, nonce: nonce, key: key})
}

// OpenBlob opens an XChaCha20-Poly1305 payload on a worker.
func (e *Engine) OpenBlob(ctx context.Context, ciphertext, header, key []byte) ([]byte, error) {
	return e.pool.Do(ctx, openReq{kind: kindBlob, ciphertext: ciphertext, nonce: header, key: key})
}

// Close stops the workers.
func (e *Engine) Close() {
	e.pool.Close()
}
