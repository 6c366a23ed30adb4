package fhe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"orderbook-core/pkg/errno"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPEncryptor(t *testing.T) {
	var got []encryptRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/encrypt", r.URL.Path)
		var req encryptRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		got = append(got, req)
		_ = json.NewEncoder(w).Encode(encryptResponse{Data: "0xdeadbeef", SecurityZone: req.SecurityZone})
	}))
	defer srv.Close()

	enc := NewHTTPEncryptor(srv.URL+"/", 2, 0)

	side, err := enc.EncryptBool(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, side.Data)
	assert.Equal(t, int32(2), side.SecurityZone)

	_, err = enc.EncryptUint32(context.Background(), 100)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, encryptRequest{Type: "bool", Value: 1, SecurityZone: 2}, got[0])
	assert.Equal(t, encryptRequest{Type: "uint32", Value: 100, SecurityZone: 2}, got[1])
}

func TestHTTPEncryptorServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPEncryptor(srv.URL, 0, 0).EncryptUint32(context.Background(), 1)
	assert.ErrorIs(t, err, errno.ErrNetwork)
	assert.Contains(t, err.Error(), "boom")
}
