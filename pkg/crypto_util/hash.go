package crypto_util

import (
	"encoding/binary"
	"encoding/hex"

	"lukechampine.com/blake3"
)

// CalculateBlake3 计算输入的 Blake3 哈希值。
func CalculateBlake3(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// EventKey 为一条链上日志生成稳定的去重键。
// 同一条日志 (txHash + logIndex) 无论被投递几次，键都相同，下游据此做幂等。
func EventKey(txHash []byte, logIndex uint) string {
	buf := make([]byte, 0, len(txHash)+8)
	buf = append(buf, txHash...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(logIndex))
	// 取前 16 字节 (32 个 hex 字符)，Kafka/Redis 的 key 不需要太长
	return CalculateBlake3(buf)[:32]
}
