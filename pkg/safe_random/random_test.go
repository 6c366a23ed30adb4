package safe_random

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomBytes(t *testing.T) {
	b, err := GenerateRandomBytes(32)
	require.NoError(t, err)
	assert.Len(t, b, 32)
	// 极不可能全为零
	assert.NotEqual(t, make([]byte, 32), b)
}

func TestNonce24Unique(t *testing.T) {
	n1, err := Nonce24()
	require.NoError(t, err)
	n2, err := Nonce24()
	require.NoError(t, err)
	assert.NotEqual(t, n1, n2)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestReaderFailure(t *testing.T) {
	orig := Reader
	t.Cleanup(func() { Reader = orig })

	Reader = failingReader{}
	_, err := GenerateRandomBytes(8)
	assert.ErrorContains(t, err, "entropy exhausted")

	// 短读也要报错
	Reader = bytes.NewReader([]byte{1, 2, 3})
	_, err = Nonce24()
	assert.Error(t, err)
}

func TestNonce24ReadsFromReader(t *testing.T) {
	orig := Reader
	t.Cleanup(func() { Reader = orig })

	seq := make([]byte, 24)
	for i := range seq {
		seq[i] = byte(i)
	}
	Reader = bytes.NewReader(seq)

	n, err := Nonce24()
	require.NoError(t, err)
	assert.Equal(t, seq, n[:])
}
