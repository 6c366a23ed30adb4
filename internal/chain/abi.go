package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// 订单簿合约中用到的部分 ABI
// 加密输入/输出统一使用 (bytes data, int32 securityZone) 结构
const orderBookABIJSON = `[
  {"type":"function","name":"placeOrder","stateMutability":"nonpayable",
   "inputs":[{"name":"order","type":"tuple","components":[
     {"name":"side","type":"tuple","components":[{"name":"data","type":"bytes"},{"name":"securityZone","type":"int32"}]},
     {"name":"amount","type":"tuple","components":[{"name":"data","type":"bytes"},{"name":"securityZone","type":"int32"}]},
     {"name":"price","type":"tuple","components":[{"name":"data","type":"bytes"},{"name":"securityZone","type":"int32"}]}
   ]}],
   "outputs":[]},
  {"type":"function","name":"getOrder","stateMutability":"view",
   "inputs":[
     {"name":"permission","type":"tuple","components":[{"name":"publicKey","type":"bytes32"},{"name":"signature","type":"bytes"}]},
     {"name":"id","type":"uint256"}
   ],
   "outputs":[
     {"name":"side","type":"tuple","components":[{"name":"data","type":"bytes"},{"name":"securityZone","type":"int32"}]},
     {"name":"amount","type":"tuple","components":[{"name":"data","type":"bytes"},{"name":"securityZone","type":"int32"}]},
     {"name":"price","type":"tuple","components":[{"name":"data","type":"bytes"},{"name":"securityZone","type":"int32"}]}
   ]},
  {"type":"event","name":"OrderPlaced","anonymous":false,"inputs":[{"name":"id","type":"uint256","indexed":false}]},
  {"type":"event","name":"OrderFilled","anonymous":false,"inputs":[{"name":"id","type":"uint256","indexed":false}]},
  {"type":"event","name":"OrdersMatched","anonymous":false,"inputs":[
     {"name":"takerId","type":"uint256","indexed":false},
     {"name":"makerId","type":"uint256","indexed":false}
  ]}
]`

// FHERC20 代币合约中用到的部分 ABI
const tokenABIJSON = `[
  {"type":"function","name":"mint","stateMutability":"nonpayable",
   "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
   "outputs":[]},
  {"type":"function","name":"checkBalanceEncrypted","stateMutability":"view",
   "inputs":[
     {"name":"account","type":"address"},
     {"name":"permission","type":"tuple","components":[{"name":"publicKey","type":"bytes32"},{"name":"signature","type":"bytes"}]}
   ],
   "outputs":[{"name":"balance","type":"tuple","components":[{"name":"data","type":"bytes"},{"name":"securityZone","type":"int32"}]}]}
]`

var (
	OrderBookABI = mustParseABI(orderBookABIJSON)
	TokenABI     = mustParseABI(tokenABIJSON)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// encryptedTuple 与 ABI 中 (bytes data, int32 securityZone) 一一对应
type encryptedTuple struct {
	Data         []byte
	SecurityZone int32
}

// permissionTuple 与 ABI 中 (bytes32 publicKey, bytes signature) 一一对应
type permissionTuple struct {
	PublicKey [32]byte
	Signature []byte
}

type orderInput struct {
	Side   encryptedTuple
	Amount encryptedTuple
	Price  encryptedTuple
}
