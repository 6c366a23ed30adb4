package fhe

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"time"

	"orderbook-core/pkg/errno"
	"orderbook-core/pkg/safe_random"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"golang.org/x/crypto/nacl/box"
)

const (
	permitDomainName    = "Fhenix Permission"
	permitDomainVersion = "1.0"
)

// PermitIssuer 生成 Permit
type PermitIssuer interface {
	Issue(ctx context.Context, contract common.Address) (*Permit, error)
	Requester() common.Address
}

// EIP712Issuer 用钱包私钥对临时 sealing 公钥做 EIP-712 签名
type EIP712Issuer struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID int64
	ttl     time.Duration
	now     func() time.Time
}

func NewEIP712Issuer(key *ecdsa.PrivateKey, chainID int64, ttl time.Duration) *EIP712Issuer {
	return &EIP712Issuer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (i *EIP712Issuer) Requester() common.Address {
	return i.address
}

func (i *EIP712Issuer) Issue(_ context.Context, contract common.Address) (*Permit, error) {
	pub, priv, err := box.GenerateKey(safe_random.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate sealing key: %w", err)
	}

	hash, err := permitHash(i.chainID, contract, *pub)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(hash, i.key)
	if err != nil {
		return nil, fmt.Errorf("sign permit: %w", err)
	}
	// 合约侧用 ecrecover, V 需要是 27/28
	sig[crypto.RecoveryIDOffset] += 27

	p := &Permit{
		ContractAddress: contract,
		Requester:       i.address,
		PublicKey:       *pub,
		Signature:       sig,
		sealingKey:      *priv,
	}
	if i.ttl > 0 {
		p.ExpiresAt = i.now().Add(i.ttl)
	}
	return p, nil
}

// VerifyPermit 校验签名确实来自 Requester
func VerifyPermit(p *Permit, chainID int64) error {
	if len(p.Signature) != crypto.SignatureLength {
		return errno.Wrapf(errno.ErrPermitRejected, "signature length %d", len(p.Signature))
	}
	hash, err := permitHash(chainID, p.ContractAddress, p.PublicKey)
	if err != nil {
		return err
	}

	sig := make([]byte, len(p.Signature))
	copy(sig, p.Signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return errno.Wrap(errno.ErrPermitRejected, err)
	}
	if signer := crypto.PubkeyToAddress(*pub); signer != p.Requester {
		return errno.Wrapf(errno.ErrPermitRejected, "signed by %s, expected %s", signer.Hex(), p.Requester.Hex())
	}
	return nil
}

func permitTypedData(chainID int64, contract common.Address, publicKey [32]byte) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Permissioned": {
				{Name: "publicKey", Type: "bytes32"},
			},
		},
		PrimaryType: "Permissioned",
		Domain: apitypes.TypedDataDomain{
			Name:              permitDomainName,
			Version:           permitDomainVersion,
			ChainId:           math.NewHexOrDecimal256(chainID),
			VerifyingContract: contract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"publicKey": hexutil.Encode(publicKey[:]),
		},
	}
}

func permitHash(chainID int64, contract common.Address, publicKey [32]byte) ([]byte, error) {
	hash, _, err := apitypes.TypedDataAndHash(permitTypedData(chainID, contract, publicKey))
	if err != nil {
		return nil, fmt.Errorf("hash permit typed data: %w", err)
	}
	return hash, nil
}
