package models

// FileType classifies a file's media kind as declared in its core metadata.
type FileType int

const (
	FileTypeImage     FileType = 0
	FileTypeVideo     FileType = 1
	FileTypeLivePhoto FileType = 2
)

// EncryptedBlob is a small encrypted payload (core metadata) together with
// the header needed to open it. Both fields are base64-encoded on the wire.
type EncryptedBlob struct {
	EncryptedData    string `json:"encryptedData"`
	DecryptionHeader string `json:"decryptionHeader"`
}

// MagicBlob is an encrypted metadata overlay (private or public "magic"
// metadata) that may override core file attributes.
type MagicBlob struct {
	Version int    `json:"version"`
	Count   int    `json:"count"`
	Data    string `json:"data"`
	Header  string `json:"header"`
}

// ContentInfo describes one downloadable variant of a file (full resolution
// or thumbnail). The encrypted bytes themselves live behind the content
// endpoints; only the decryption header travels with the record.
type ContentInfo struct {
	DecryptionHeader string `json:"decryptionHeader"`
	Size             int64  `json:"size,omitempty"`
}

// EncryptedFile is the remote representation of one collection member as
// returned by the diff endpoint. Immutable once fetched.
type EncryptedFile struct {
	ID                 int64         `json:"id"`
	EncryptedKey       string        `json:"encryptedKey"`
	KeyDecryptionNonce string        `json:"keyDecryptionNonce"`
	File               ContentInfo   `json:"file"`
	Thumbnail          ContentInfo   `json:"thumbnail"`
	Metadata           EncryptedBlob `json:"metadata"`
	MagicMetadata      *MagicBlob    `json:"magicMetadata,omitempty"`
	PubMagicMetadata   *MagicBlob    `json:"pubMagicMetadata,omitempty"`
	IsDeleted          bool          `json:"isDeleted"`
	UpdationTime       int64         `json:"updationTime"`
}

// DiffPage is one page of the collection change log.
type DiffPage struct {
	Diff    []*EncryptedFile `json:"diff"`
	HasMore bool             `json:"hasMore"`
}
