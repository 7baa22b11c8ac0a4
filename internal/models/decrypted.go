package models

import (
	"path/filepath"
	"strings"
)

// Metadata is the decrypted core metadata of a file.
//
// After overlay application, Title and CreationTime reflect the most recent
// edit (editedName / editedTime), not the original capture.
type Metadata struct {
	FileType         FileType `json:"fileType"`
	Title            string   `json:"title"`
	CreationTime     int64    `json:"creationTime"`
	ModificationTime int64    `json:"modificationTime"`
	Size             int64    `json:"fileSize"`
}

// DecryptedFile is an EncryptedFile record after its content key and
// metadata blobs have been opened with the collection key.
type DecryptedFile struct {
	Record *EncryptedFile

	// Key is the per-file content key unwrapped with the collection key.
	Key []byte

	Metadata Metadata

	// PrivMagic and PubMagic hold the decoded overlay fields as loose
	// maps; the decryptor has already folded the recognised keys
	// (editedName, editedTime) into Metadata.
	PrivMagic map[string]any
	PubMagic  map[string]any
}

// Extension returns the lower-cased file extension of the (possibly
// overridden) title, without the leading dot.
func (f *DecryptedFile) Extension() string {
	ext := filepath.Ext(f.Metadata.Title)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Dimensions reports the declared pixel dimensions from the public overlay,
// if present. ok is false when either dimension is missing.
func (f *DecryptedFile) Dimensions() (w, h int, ok bool) {
	wv, wok := overlayInt(f.PubMagic, "w")
	hv, hok := overlayInt(f.PubMagic, "h")
	if !wok || !hok {
		return 0, 0, false
	}
	return wv, hv, true
}

// overlayInt extracts an integer overlay field. JSON numbers decode into
// float64, so both representations are accepted.
func overlayInt(m map[string]any, key string) (int, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}
