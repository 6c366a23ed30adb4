package chain

import (
	"context"
	"fmt"
	"math/big"

	"orderbook-core/internal/model"
	"orderbook-core/pkg/errno"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Token FHERC20 代币合约绑定
type Token struct {
	address  common.Address
	contract *bind.BoundContract
}

func NewToken(address common.Address, backend bind.ContractBackend) *Token {
	return &Token{
		address:  address,
		contract: bind.NewBoundContract(address, TokenABI, backend, backend, backend),
	}
}

func (t *Token) Address() common.Address {
	return t.address
}

// Mint 给 to 地址铸币
func (t *Token) Mint(opts *bind.TransactOpts, to common.Address, amount *big.Int) (*types.Transaction, error) {
	tx, err := t.contract.Transact(opts, "mint", to, amount)
	if err != nil {
		return nil, ClassifyRPCError(fmt.Errorf("mint: %w", err))
	}
	return tx, nil
}

// CheckBalanceEncrypted 读取 account 的密文余额, 需要代币合约的 permission
func (t *Token) CheckBalanceEncrypted(ctx context.Context, account common.Address, permission model.Permission) (model.EncryptedField, error) {
	var out []interface{}
	err := t.contract.Call(&bind.CallOpts{Context: ctx, From: account}, &out, "checkBalanceEncrypted",
		account,
		permissionTuple{PublicKey: permission.PublicKey, Signature: permission.Signature},
	)
	if err != nil {
		return model.EncryptedField{}, ClassifyCallError(fmt.Errorf("checkBalanceEncrypted: %w", err))
	}
	if len(out) != 1 {
		return model.EncryptedField{}, errno.Wrapf(errno.ErrNetwork, "checkBalanceEncrypted: unexpected %d outputs", len(out))
	}
	return fromTuple(*abi.ConvertType(out[0], new(encryptedTuple)).(*encryptedTuple)), nil
}
