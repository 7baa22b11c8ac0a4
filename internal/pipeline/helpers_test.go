package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/photocast/internal/common"
	"github.com/dmitrijs2005/photocast/internal/cryptox"
	"github.com/dmitrijs2005/photocast/internal/models"
)

// fakeClient implements castclient.Client against in-memory fixtures. The
// diff script is replayed from the start on every pass.
type fakeClient struct {
	pages   []*models.DiffPage
	pageIdx int
	diffErr error

	files    map[int64][]byte
	thumbs   map[int64][]byte
	fileErrs map[int64]error

	diffCalls      int
	sinceSeen      []int64
	fileDownloads  []int64
	thumbDownloads []int64
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		files:    make(map[int64][]byte),
		thumbs:   make(map[int64][]byte),
		fileErrs: make(map[int64]error),
	}
}

func (c *fakeClient) FetchDiff(_ context.Context, since int64) (*models.DiffPage, error) {
	c.diffCalls++
	c.sinceSeen = append(c.sinceSeen, since)
	if c.diffErr != nil {
		return nil, c.diffErr
	}
	page := c.pages[c.pageIdx]
	c.pageIdx = (c.pageIdx + 1) % len(c.pages)
	return page, nil
}

func (c *fakeClient) DownloadFile(_ context.Context, fileID int64) ([]byte, error) {
	c.fileDownloads = append(c.fileDownloads, fileID)
	if err := c.fileErrs[fileID]; err != nil {
		return nil, err
	}
	data, ok := c.files[fileID]
	if !ok {
		return nil, fmt.Errorf("%w: no such file %d", common.ErrTransfer, fileID)
	}
	return data, nil
}

func (c *fakeClient) DownloadThumbnail(_ context.Context, fileID int64) ([]byte, error) {
	c.thumbDownloads = append(c.thumbDownloads, fileID)
	data, ok := c.thumbs[fileID]
	if !ok {
		return nil, fmt.Errorf("%w: no such thumbnail %d", common.ErrTransfer, fileID)
	}
	return data, nil
}

// fixture seals encrypted file records the way the real collection does and
// feeds the matching content bytes to a fakeClient.
type fixture struct {
	t             *testing.T
	collectionKey []byte
	client        *fakeClient

	recs []*models.EncryptedFile
	keys map[int64][]byte
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		t:             t,
		collectionKey: common.GenerateRandByteArray(cryptox.KeySize),
		client:        newFakeClient(),
		keys:          make(map[int64][]byte),
	}
}

func b64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// addFile seals one record plus its full-resolution content and registers
// both with the fake client. UpdationTime defaults to the file ID.
func (f *fixture) addFile(id int64, md models.Metadata, priv, pub map[string]any, content []byte) *models.EncryptedFile {
	f.t.Helper()

	fileKey := common.GenerateRandByteArray(cryptox.KeySize)
	f.keys[id] = fileKey

	keyNonce := common.GenerateRandByteArray(cryptox.BoxNonceSize)
	encKey, err := cryptox.SealSecretBox(fileKey, keyNonce, f.collectionKey)
	require.NoError(f.t, err)

	mdJSON, err := json.Marshal(md)
	require.NoError(f.t, err)
	mdHeader := common.GenerateRandByteArray(24)
	mdSealed, err := cryptox.SealBlob(mdJSON, mdHeader, fileKey)
	require.NoError(f.t, err)

	rec := &models.EncryptedFile{
		ID:                 id,
		EncryptedKey:       b64(encKey),
		KeyDecryptionNonce: b64(keyNonce),
		Metadata:           models.EncryptedBlob{EncryptedData: b64(mdSealed), DecryptionHeader: b64(mdHeader)},
		UpdationTime:       id,
	}

	if priv != nil {
		rec.MagicMetadata = f.sealMagic(fileKey, priv)
	}
	if pub != nil {
		rec.PubMagicMetadata = f.sealMagic(fileKey, pub)
	}

	if content != nil {
		header := common.GenerateRandByteArray(24)
		sealed, err := cryptox.SealBlob(content, header, fileKey)
		require.NoError(f.t, err)
		rec.File = models.ContentInfo{DecryptionHeader: b64(header)}
		f.client.files[id] = sealed
	}

	f.recs = append(f.recs, rec)
	return rec
}

// addThumbnail seals thumbnail content under the file's key.
func (f *fixture) addThumbnail(rec *models.EncryptedFile, content []byte) {
	f.t.Helper()
	header := common.GenerateRandByteArray(24)
	sealed, err := cryptox.SealBlob(content, header, f.keys[rec.ID])
	require.NoError(f.t, err)
	rec.Thumbnail = models.ContentInfo{DecryptionHeader: b64(header)}
	f.client.thumbs[rec.ID] = sealed
}

func (f *fixture) sealMagic(key []byte, overlay map[string]any) *models.MagicBlob {
	f.t.Helper()
	payload, err := json.Marshal(overlay)
	require.NoError(f.t, err)
	header := common.GenerateRandByteArray(24)
	sealed, err := cryptox.SealBlob(payload, header, key)
	require.NoError(f.t, err)
	return &models.MagicBlob{Version: 1, Count: len(overlay), Data: b64(sealed), Header: b64(header)}
}

// finalize publishes the accumulated records as a single-page diff.
func (f *fixture) finalize() {
	f.client.pages = []*models.DiffPage{{Diff: f.recs, HasMore: false}}
}

func imageMeta(title string, size int64) models.Metadata {
	return models.Metadata{FileType: models.FileTypeImage, Title: title, CreationTime: 1_600_000_000_000_000, Size: size}
}

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// testHEICBytes is an ISO-BMFF ftyp box with the heic major brand plus
// filler, enough for byte-level sniffing to report image/heic.
func testHEICBytes() []byte {
	ftyp := []byte{
		0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
		'h', 'e', 'i', 'c', 0x00, 0x00, 0x00, 0x00,
		'm', 'i', 'f', '1', 'h', 'e', 'i', 'c',
	}
	return append(ftyp, make([]byte, 64)...)
}

// testLivePhotoBundle builds a zip holding a still image and a video clip.
func testLivePhotoBundle(t *testing.T, still []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("clip.mov")
	require.NoError(t, err)
	_, err = w.Write([]byte("fake video bytes"))
	require.NoError(t, err)

	w, err = zw.Create("still.jpg")
	require.NoError(t, err)
	_, err = w.Write(still)
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// noShuffle keeps the pass in fixture order for deterministic tests.
func noShuffle(int, func(i, j int)) {}
