package codec

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/gen2brain/heic"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/dmitrijs2005/photocast/internal/workerx"
)

// jpegQuality is the fixed re-encode quality for transcoded and downscaled
// slides.
const jpegQuality = 85

type opKind int

const (
	opTranscode opKind = iota
	opDownscale
)

type codecReq struct {
	kind       opKind
	data       []byte
	maxW, maxH int
}

// Service runs transcode and downscale operations on dedicated workers,
// reached by request/response message passing.
type Service struct {
	pool *workerx.Pool[codecReq, []byte]
}

// NewService starts a codec service with the given number of workers.
func NewService(workers int) *Service {
	pool := workerx.NewPool(workers, func(r codecReq) ([]byte, error) {
		switch r.kind {
		case opTranscode:
			return transcodeHEIC(r.data)
		default:
			return downscale(r.data, r.maxW, r.maxH)
		}
	})
	return &Service{pool: pool}
}

// TranscodeHEIC converts HEIC/HEIF bytes to JPEG on a worker.
func (s *Service) TranscodeHEIC(ctx context.Context, data []byte) ([]byte, error) {
	return s.pool.Do(ctx, codecReq{kind: opTranscode, data: data})
}

// Downscale re-renders data as JPEG bounded by maxW×maxH, preserving aspect
// ratio. The output is JPEG even when no scaling was needed.
func (s *Service) Downscale(ctx context.Context, data []byte, maxW, maxH int) ([]byte, error) {
	return s.pool.Do(ctx, codecReq{kind: opDownscale, data: data, maxW: maxW, maxH: maxH})
}

// Close stops the workers.
func (s *Service) Close() {
	s.pool.Close()
}

func transcodeHEIC(data []byte) ([]byte, error) {
	img, err := heic.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("heic decode: %w", err)
	}
	return encodeJPEG(img)
}

func downscale(data []byte, maxW, maxH int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image decode: %w", err)
	}

	b := img.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		// Declared dimensions were missing or wrong and the actual image
		// already fits the ceiling. Re-encode without scaling so the
		// output is always JPEG.
		return encodeJPEG(img)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return encodeJPEG(dst)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin shrinks w×h to fit maxW×maxH preserving aspect ratio. It never
// upscales.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if maxW <= 0 || maxH <= 0 || (w <= maxW && h <= maxH) {
		return w, h
	}

	rw := float64(maxW) / float64(w)
	rh := float64(maxH) / float64(h)
	r := rw
	if rh < r {
		r = rh
	}

	nw := int(float64(w) * r)
	nh := int(float64(h) * r)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}
