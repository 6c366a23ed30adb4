package chain

import (
	"crypto/ecdsa"
	"math/big"
	"strings"

	"orderbook-core/pkg/errno"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet 由 PRIVATE_KEY 构造的签名账户
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// LoadWallet 解析 16 进制私钥 (可带 0x 前缀)
func LoadWallet(privateKeyHex string) (*Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, errno.Wrapf(errno.ErrConfig, "PRIVATE_KEY is not a valid secp256k1 key")
	}
	return &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

func (w *Wallet) Address() common.Address {
	return w.address
}

func (w *Wallet) PrivateKey() *ecdsa.PrivateKey {
	return w.key
}

// TransactOpts 交易签名参数, gas 由节点估算
func (w *Wallet) TransactOpts(chainID int64) (*bind.TransactOpts, error) {
	return bind.NewKeyedTransactorWithChainID(w.key, big.NewInt(chainID))
}
