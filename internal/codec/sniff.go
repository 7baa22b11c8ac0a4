// Package codec provides the media services the materializer consumes:
// byte-level type sniffing, HEIC/HEIF→JPEG transcoding and bounded
// downscaling. The CPU-bound decode work runs on a worker pool so it never
// blocks the pipeline loop.
package codec

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dmitrijs2005/photocast/internal/common"
)

// Sniff detects the actual media type of data independently of any filename.
// It fails with common.ErrUnknownFormat when detection yields nothing usable;
// filenames are a known-unreliable type indicator, so this is authoritative.
func Sniff(data []byte) (*mimetype.MIME, error) {
	m := mimetype.Detect(data)
	if m.Is("application/octet-stream") || m.Is("text/plain") {
		return nil, fmt.Errorf("%w: sniffed %s", common.ErrUnknownFormat, m.String())
	}
	return m, nil
}

// IsHEIC reports whether the sniffed type is any HEIC/HEIF flavour.
func IsHEIC(m *mimetype.MIME) bool {
	return m.Is("image/heic") || m.Is("image/heif") ||
		m.Is("image/heic-sequence") || m.Is("image/heif-sequence")
}
