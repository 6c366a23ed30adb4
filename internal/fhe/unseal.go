package fhe

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"orderbook-core/pkg/errno"
	"orderbook-core/pkg/safe_random"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/nacl/box"
)

const sealedVersion = "x25519-xsalsa20-poly1305"

// Unsealer 用 Permit 的 sealing 私钥解开链上返回的密文
type Unsealer interface {
	Unseal(permit *Permit, sealed []byte) (*uint256.Int, error)
}

// sealedBox eth-sig-util 的加密数据格式, 三个字段都是 base64
type sealedBox struct {
	Version        string `json:"version"`
	Nonce          string `json:"nonce"`
	EphemPublicKey string `json:"ephemPublicKey"`
	Ciphertext     string `json:"ciphertext"`
}

// NaClUnsealer 解 x25519-xsalsa20-poly1305 密文, 明文是大端无符号整数
type NaClUnsealer struct{}

func (NaClUnsealer) Unseal(permit *Permit, sealed []byte) (*uint256.Int, error) {
	raw, err := normalizeSealed(sealed)
	if err != nil {
		return nil, errno.Wrap(errno.ErrDecryption, err)
	}

	var sb sealedBox
	if err := json.Unmarshal(raw, &sb); err != nil {
		return nil, errno.Wrapf(errno.ErrDecryption, "parse sealed output: %v", err)
	}
	if sb.Version != sealedVersion {
		return nil, errno.Wrapf(errno.ErrDecryption, "unsupported version %q", sb.Version)
	}

	var nonce [24]byte
	if err := decodeFixed(sb.Nonce, nonce[:]); err != nil {
		return nil, errno.Wrapf(errno.ErrDecryption, "nonce: %v", err)
	}
	var ephem [32]byte
	if err := decodeFixed(sb.EphemPublicKey, ephem[:]); err != nil {
		return nil, errno.Wrapf(errno.ErrDecryption, "ephemPublicKey: %v", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(sb.Ciphertext)
	if err != nil {
		return nil, errno.Wrapf(errno.ErrDecryption, "ciphertext: %v", err)
	}

	plaintext, ok := box.Open(nil, ciphertext, &nonce, &ephem, &permit.sealingKey)
	if !ok {
		return nil, errno.Wrapf(errno.ErrDecryption, "box open failed")
	}
	if len(plaintext) > 32 {
		return nil, errno.Wrapf(errno.ErrDecryption, "plaintext is %d bytes", len(plaintext))
	}
	return new(uint256.Int).SetBytes(plaintext), nil
}

// normalizeSealed 合约返回的可能是 JSON 本身, 也可能是 JSON 的 hex 编码
func normalizeSealed(sealed []byte) ([]byte, error) {
	s := strings.TrimSpace(string(sealed))
	if s == "" {
		return nil, fmt.Errorf("empty sealed output")
	}
	if strings.HasPrefix(s, "0x") {
		return hexutil.Decode(s)
	}
	return []byte(s), nil
}

func decodeFixed(s string, dst []byte) error {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != len(dst) {
		return fmt.Errorf("want %d bytes, got %d", len(dst), len(b))
	}
	copy(dst, b)
	return nil
}

// SealUint 用接收方的 sealing 公钥加密一个整数, 输出格式与 Unseal 对应
// 本地合约模拟和测试使用
func SealUint(recipient [32]byte, value *uint256.Int) ([]byte, error) {
	ephemPub, ephemPriv, err := box.GenerateKey(safe_random.Reader)
	if err != nil {
		return nil, err
	}
	nonce, err := safe_random.Nonce24()
	if err != nil {
		return nil, err
	}

	plaintext := value.Bytes()
	ciphertext := box.Seal(nil, plaintext, &nonce, &recipient, ephemPriv)

	return json.Marshal(sealedBox{
		Version:        sealedVersion,
		Nonce:          base64.StdEncoding.EncodeToString(nonce[:]),
		EphemPublicKey: base64.StdEncoding.EncodeToString(ephemPub[:]),
		Ciphertext:     base64.StdEncoding.EncodeToString(ciphertext),
	})
}

// UnsealUint64 解密并检查是否能放进 uint64
func UnsealUint64(u Unsealer, permit *Permit, sealed []byte) (uint64, error) {
	v, err := u.Unseal(permit, sealed)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, errno.Wrapf(errno.ErrDecryption, "value %s overflows uint64", v.Dec())
	}
	return v.Uint64(), nil
}

// UnsealBool ebool 解密后非零即 true
func UnsealBool(u Unsealer, permit *Permit, sealed []byte) (bool, error) {
	v, err := u.Unseal(permit, sealed)
	if err != nil {
		return false, err
	}
	return !v.IsZero(), nil
}
