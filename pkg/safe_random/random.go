package safe_random

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Reader 是一个全局共享的加密安全随机数生成器实例。
// 默认为 crypto/rand.Reader, 测试中可以替换。
var Reader io.Reader = rand.Reader

// GenerateRandomBytes 生成指定长度的安全随机字节切片。
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(Reader, b); err != nil {
		return nil, fmt.Errorf("生成随机字节失败: %w", err)
	}
	return b, nil
}

// Nonce24 NaCl box 使用的 24 字节随机 nonce
func Nonce24() ([24]byte, error) {
	var nonce [24]byte
	b, err := GenerateRandomBytes(len(nonce))
	if err != nil {
		return nonce, fmt.Errorf("生成 nonce 失败: %w", err)
	}
	copy(nonce[:], b)
	return nonce, nil
}
