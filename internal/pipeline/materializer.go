package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/photocast/internal/artifact"
	"github.com/dmitrijs2005/photocast/internal/castclient"
	"github.com/dmitrijs2005/photocast/internal/codec"
	"github.com/dmitrijs2005/photocast/internal/common"
	"github.com/dmitrijs2005/photocast/internal/cryptox"
	"github.com/dmitrijs2005/photocast/internal/device"
	"github.com/dmitrijs2005/photocast/internal/logging"
	"github.com/dmitrijs2005/photocast/internal/models"
)

// stillExtensions identifies the still-image component inside a live photo
// bundle.
var stillExtensions = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "heic": {}, "heif": {},
	"gif": {}, "webp": {}, "bmp": {}, "tif": {}, "tiff": {},
}

// Codec is the slice of the media codec service the materializer consumes.
// Satisfied by *codec.Service.
type Codec interface {
	TranscodeHEIC(ctx context.Context, data []byte) ([]byte, error)
	Downscale(ctx context.Context, data []byte, maxW, maxH int) ([]byte, error)
}

var _ Codec = (*codec.Service)(nil)

// Materializer downloads, decrypts, transcodes and (conditionally) resizes
// an eligible file into a renderable artifact.
type Materializer struct {
	client castclient.Client
	engine *cryptox.Engine
	codecs Codec
	caps   device.Capabilities
	log    logging.Logger
}

func NewMaterializer(client castclient.Client, engine *cryptox.Engine, codecs Codec, caps device.Capabilities, log logging.Logger) *Materializer {
	return &Materializer{client: client, engine: engine, codecs: codecs, caps: caps, log: log}
}

// Materialize produces a renderable artifact for f.
func (m *Materializer) Materialize(ctx context.Context, f *models.DecryptedFile) (*artifact.Artifact, error) {
	// The thumbnail stands in for the full file only when the device
	// cannot decode HEIC and the nominal extension says HEIC.
	_, heicExt := heicExtensions[f.Extension()]
	useThumb := heicExt && !m.caps.CanDecodeHEIC()

	var (
		raw       []byte
		headerB64 string
		err       error
	)
	if useThumb {
		raw, err = m.client.DownloadThumbnail(ctx, f.Record.ID)
		headerB64 = f.Record.Thumbnail.DecryptionHeader
	} else {
		raw, err = m.client.DownloadFile(ctx, f.Record.ID)
		headerB64 = f.Record.File.DecryptionHeader
	}
	if err != nil {
		return nil, err
	}

	header, err := decodeB64(headerB64)
	if err != nil {
		return nil, err
	}
	data, err := m.engine.OpenBlob(ctx, raw, header, f.Key)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}

	name := f.Metadata.Title
	if !useThumb && f.Metadata.FileType == models.FileTypeLivePhoto {
		data, name, err = extractLivePhotoStill(data)
		if err != nil {
			return nil, err
		}
	}

	// Byte-level type detection; the filename is only a hint.
	mt, err := codec.Sniff(data)
	if err != nil {
		return nil, fmt.Errorf("sniffing %q: %w", name, err)
	}
	contentType := mt.String()

	if codec.IsHEIC(mt) {
		data, err = m.codecs.TranscodeHEIC(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("transcoding %q: %w", name, err)
		}
		contentType = "image/jpeg"
	}

	if maxW, maxH, limited := m.caps.MaxResolution(); limited {
		w, h, known := f.Dimensions()
		// Unknown dimensions are treated conservatively as oversized.
		if !known || w > maxW || h > maxH {
			data, err = m.codecs.Downscale(ctx, data, maxW, maxH)
			if err != nil {
				return nil, fmt.Errorf("resizing %q: %w", name, err)
			}
			contentType = "image/jpeg"
		}
	}

	art := artifact.New(data, contentType)
	m.log.Debug(ctx, "materialized slide",
		"file_id", f.Record.ID, "artifact", art.ID,
		"content_type", contentType, "bytes", art.Size(), "thumbnail", useThumb)
	return art, nil
}

// extractLivePhotoStill pulls the still-image component out of a live photo
// bundle, replacing both the working bytes and the logical filename.
func extractLivePhotoStill(bundle []byte) ([]byte, string, error) {
	zr, err := zip.NewReader(bytes.NewReader(bundle), int64(len(bundle)))
	if err != nil {
		return nil, "", fmt.Errorf("%w: live photo bundle: %v", common.ErrUnknownFormat, err)
	}

	for _, entry := range zr.File {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(entry.Name), "."))
		if _, ok := stillExtensions[ext]; !ok {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, "", fmt.Errorf("%w: live photo entry %q: %v", common.ErrUnknownFormat, entry.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("%w: live photo entry %q: %v", common.ErrUnknownFormat, entry.Name, err)
		}
		return data, entry.Name, nil
	}

	return nil, "", fmt.Errorf("%w: live photo bundle has no image component", common.ErrUnknownFormat)
}
