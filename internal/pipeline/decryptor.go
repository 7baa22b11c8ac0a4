package pipeline

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/photocast/internal/common"
	"github.com/dmitrijs2005/photocast/internal/cryptox"
	"github.com/dmitrijs2005/photocast/internal/models"
)

// Decryptor turns one encrypted file record into a fully decrypted file
// object: per-file content key, core metadata, and magic-metadata overlays.
type Decryptor struct {
	engine *cryptox.Engine
}

func NewDecryptor(engine *cryptox.Engine) *Decryptor {
	return &Decryptor{engine: engine}
}

// Decrypt unwraps the record's content key with the collection key, opens
// the core metadata blob, then applies the private and public overlays in
// that order, so when both define the same field the public value wins.
func (d *Decryptor) Decrypt(ctx context.Context, rec *models.EncryptedFile, collectionKey []byte) (*models.DecryptedFile, error) {
	encKey, err := decodeB64(rec.EncryptedKey)
	if err != nil {
		return nil, err
	}
	keyNonce, err := decodeB64(rec.KeyDecryptionNonce)
	if err != nil {
		return nil, err
	}

	key, err := d.engine.OpenSecretBox(ctx, encKey, keyNonce, collectionKey)
	if err != nil {
		return nil, fmt.Errorf("unwrapping content key: %w", err)
	}

	file := &models.DecryptedFile{Record: rec, Key: key}

	if err := d.openJSON(ctx, rec.Metadata.EncryptedData, rec.Metadata.DecryptionHeader, key, &file.Metadata); err != nil {
		return nil, fmt.Errorf("core metadata: %w", err)
	}

	if rec.MagicMetadata != nil {
		if err := d.openJSON(ctx, rec.MagicMetadata.Data, rec.MagicMetadata.Header, key, &file.PrivMagic); err != nil {
			return nil, fmt.Errorf("private magic metadata: %w", err)
		}
		applyOverlay(&file.Metadata, file.PrivMagic)
	}

	if rec.PubMagicMetadata != nil {
		if err := d.openJSON(ctx, rec.PubMagicMetadata.Data, rec.PubMagicMetadata.Header, key, &file.PubMagic); err != nil {
			return nil, fmt.Errorf("public magic metadata: %w", err)
		}
		applyOverlay(&file.Metadata, file.PubMagic)
	}

	return file, nil
}

// openJSON decrypts a base64 blob/header pair and unmarshals the plaintext.
func (d *Decryptor) openJSON(ctx context.Context, dataB64, headerB64 string, key []byte, v any) error {
	ciphertext, err := decodeB64(dataB64)
	if err != nil {
		return err
	}
	header, err := decodeB64(headerB64)
	if err != nil {
		return err
	}

	plaintext, err := d.engine.OpenBlob(ctx, ciphertext, header, key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("%w: decoding metadata json: %v", common.ErrDecryption, err)
	}
	return nil
}

// applyOverlay folds an overlay's edited fields into the core metadata.
// An edit always supersedes the original capture attributes.
func applyOverlay(md *models.Metadata, overlay map[string]any) {
	if overlay == nil {
		return
	}
	if name, ok := overlay["editedName"].(string); ok && name != "" {
		md.Title = name
	}
	if t, ok := overlay["editedTime"].(float64); ok && t > 0 {
		md.CreationTime = int64(t)
	}
}

func decodeB64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", common.ErrDecryption, err)
	}
	return b, nil
}
