package chain

import (
	"context"
	"errors"
	"strings"

	"orderbook-core/pkg/errno"
)

// 不同节点对 eth_getLogs 范围过大的报错文案不一样，这里按关键词匹配
var rangeTooLargeTokens = []string{
	"query returned more than",
	"block range",
	"range is too large",
	"range too large",
	"exceed maximum block range",
	"limit exceeded",
	"too many blocks",
	"response size exceeded",
}

var notFoundTokens = []string{
	"not found",
	"does not exist",
	"invalid order",
	"nonexistent",
}

var permitRejectedTokens = []string{
	"permission",
	"invalid signature",
	"signature",
	"unauthorized",
	"not allowed",
}

// ClassifyRPCError 把传输层错误归类为 ErrNetwork, 上下文取消原样返回
func ClassifyRPCError(err error) error {
	if err == nil {
		return nil
	}
	if isContextErr(err) {
		return err
	}
	return errno.Wrap(errno.ErrNetwork, err)
}

// ClassifyLogsError eth_getLogs 的错误: 范围过大 或 网络错误
func ClassifyLogsError(err error) error {
	if err == nil {
		return nil
	}
	if isContextErr(err) {
		return err
	}
	if containsAny(strings.ToLower(err.Error()), rangeTooLargeTokens) {
		return errno.Wrap(errno.ErrRangeTooLarge, err)
	}
	return errno.Wrap(errno.ErrNetwork, err)
}

// ClassifyCallError 只读合约调用 (eth_call) 的错误
// revert 文案里带 not found 的视为订单不存在, 带 permission/signature 的视为 permit 被拒
func ClassifyCallError(err error) error {
	if err == nil {
		return nil
	}
	if isContextErr(err) {
		return err
	}
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "revert") {
		switch {
		case containsAny(lower, notFoundTokens):
			return errno.Wrap(errno.ErrNotFound, err)
		case containsAny(lower, permitRejectedTokens):
			return errno.Wrap(errno.ErrPermitRejected, err)
		}
	}
	return errno.Wrap(errno.ErrNetwork, err)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func containsAny(msg string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(msg, token) {
			return true
		}
	}
	return false
}
