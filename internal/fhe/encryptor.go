package fhe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"orderbook-core/internal/model"
	"orderbook-core/pkg/errno"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Encryptor 客户端加密, 生成 placeOrder 需要的 inEbool / inEuint32
type Encryptor interface {
	EncryptBool(ctx context.Context, v bool) (model.EncryptedField, error)
	EncryptUint32(ctx context.Context, v uint32) (model.EncryptedField, error)
}

// HTTPEncryptor 调用外部加密服务 POST {baseURL}/encrypt
type HTTPEncryptor struct {
	baseURL      string
	securityZone int32
	client       *http.Client
}

func NewHTTPEncryptor(baseURL string, securityZone int32, timeout time.Duration) *HTTPEncryptor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPEncryptor{
		baseURL:      strings.TrimRight(baseURL, "/"),
		securityZone: securityZone,
		client:       &http.Client{Timeout: timeout},
	}
}

type encryptRequest struct {
	Type         string `json:"type"`
	Value        uint64 `json:"value"`
	SecurityZone int32  `json:"securityZone"`
}

type encryptResponse struct {
	Data         string `json:"data"`
	SecurityZone int32  `json:"securityZone"`
}

func (e *HTTPEncryptor) EncryptBool(ctx context.Context, v bool) (model.EncryptedField, error) {
	var n uint64
	if v {
		n = 1
	}
	return e.encrypt(ctx, "bool", n)
}

func (e *HTTPEncryptor) EncryptUint32(ctx context.Context, v uint32) (model.EncryptedField, error) {
	return e.encrypt(ctx, "uint32", uint64(v))
}

func (e *HTTPEncryptor) encrypt(ctx context.Context, typ string, v uint64) (model.EncryptedField, error) {
	body, err := json.Marshal(encryptRequest{Type: typ, Value: v, SecurityZone: e.securityZone})
	if err != nil {
		return model.EncryptedField{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/encrypt", bytes.NewReader(body))
	if err != nil {
		return model.EncryptedField{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return model.EncryptedField{}, errno.Wrap(errno.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.EncryptedField{}, errno.Wrapf(errno.ErrNetwork, "encrypt %s: %s: %s", typ, resp.Status, strings.TrimSpace(string(msg)))
	}

	var out encryptResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.EncryptedField{}, fmt.Errorf("decode encrypt response: %w", err)
	}
	data, err := hexutil.Decode(out.Data)
	if err != nil {
		return model.EncryptedField{}, fmt.Errorf("encrypt response data: %w", err)
	}
	return model.EncryptedField{Data: data, SecurityZone: out.SecurityZone}, nil
}
