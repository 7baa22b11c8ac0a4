package cryptox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/photocast/internal/common"
)

func TestSecretBox_RoundTrip(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	nonce := common.GenerateRandByteArray(BoxNonceSize)
	msg := []byte("per-file content key goes here..")

	sealed, err := SealSecretBox(msg, nonce, key)
	require.NoError(t, err)

	opened, err := OpenSecretBox(sealed, nonce, key)
	require.NoError(t, err)
	require.Equal(t, msg, opened)
}

func TestSecretBox_WrongKeyFails(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	nonce := common.GenerateRandByteArray(BoxNonceSize)

	sealed, err := SealSecretBox([]byte("secret"), nonce, key)
	require.NoError(t, err)

	other := common.GenerateRandByteArray(KeySize)
	_, err = OpenSecretBox(sealed, nonce, other)
	require.ErrorIs(t, err, common.ErrDecryption)
}

func TestSecretBox_BadLengths(t *testing.T) {
	_, err := OpenSecretBox([]byte("x"), make([]byte, BoxNonceSize), make([]byte, 5))
	require.ErrorIs(t, err, common.ErrDecryption)

	_, err = OpenSecretBox([]byte("x"), make([]byte, 3), make([]byte, KeySize))
	require.ErrorIs(t, err, common.ErrDecryption)
}

func TestBlob_RoundTrip(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	header := common.GenerateRandByteArray(24)
	payload := []byte(`{"title":"IMG_0001.jpg"}`)

	sealed, err := SealBlob(payload, header, key)
	require.NoError(t, err)

	opened, err := OpenBlob(sealed, header, key)
	require.NoError(t, err)
	require.Equal(t, payload, opened)
}

func TestBlob_TamperedCiphertextFails(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	header := common.GenerateRandByteArray(24)

	sealed, err := SealBlob([]byte("payload"), header, key)
	require.NoError(t, err)

	sealed[0] ^= 0xff
	_, err = OpenBlob(sealed, header, key)
	require.ErrorIs(t, err, common.ErrDecryption)
}

func TestBlob_BadHeaderLength(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	_, err := OpenBlob([]byte("x"), make([]byte, 12), key)
	require.ErrorIs(t, err, common.ErrDecryption)
}

func TestEngine_OpensOnWorker(t *testing.T) {
	engine := NewEngine(1)
	defer engine.Close()

	ctx := context.Background()
	key := common.GenerateRandByteArray(KeySize)

	nonce := common.GenerateRandByteArray(BoxNonceSize)
	boxed, err := SealSecretBox([]byte("content key"), nonce, key)
	require.NoError(t, err)

	opened, err := engine.OpenSecretBox(ctx, boxed, nonce, key)
	require.NoError(t, err)
	require.Equal(t, []byte("content key"), opened)

	header := common.GenerateRandByteArray(24)
	sealed, err := SealBlob([]byte("blob"), header, key)
	require.NoError(t, err)

	opened, err = engine.OpenBlob(ctx, sealed, header, key)
	require.NoError(t, err)
	require.Equal(t, []byte("blob"), opened)
}

func TestEngine_CancelledContext(t *testing.T) {
	engine := NewEngine(1)
	defer engine.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	key := common.GenerateRandByteArray(KeySize)
	_, err := engine.OpenBlob(ctx, []byte("x"), common.GenerateRandByteArray(24), key)
	require.ErrorIs(t, err, context.Canceled)
}
