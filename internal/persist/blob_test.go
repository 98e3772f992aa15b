package persist

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBlobSmallPayloadStaysRaw(t *testing.T) {
	raw := []byte(`{"tick":42}`)
	enc, err := encodeBlob(raw)
	require.NoError(t, err)
	assert.Equal(t, byte(encodingRaw), enc[0])
	assert.Equal(t, raw, enc[1:])

	dec, err := decodeBlob(enc)
	require.NoError(t, err)
	assert.Equal(t, raw, dec)
}

func TestEncodeBlobLargePayloadCompresses(t *testing.T) {
	raw := bytes.Repeat([]byte(`{"zone":"deep_trench","resource":"moonstone"}`), 200)
	require.GreaterOrEqual(t, len(raw), compressThreshold)

	enc, err := encodeBlob(raw)
	require.NoError(t, err)
	assert.Equal(t, byte(encodingLZ4), enc[0])
	assert.Less(t, len(enc), len(raw), "repetitive state shrinks")

	dec, err := decodeBlob(enc)
	require.NoError(t, err)
	assert.Equal(t, raw, dec)
}

func TestDecodeBlobRejectsGarbage(t *testing.T) {
	_, err := decodeBlob(nil)
	assert.Error(t, err)
	_, err = decodeBlob([]byte{0x7f, 0x01})
	assert.Error(t, err)
}
