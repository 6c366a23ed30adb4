package errno

import (
	"errors"
	"fmt"
	"net/http"
)

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Is 让被包装过的错误也能用 errors.Is(err, errno.ErrNotFound) 判断
func (e Errno) Is(target error) bool {
	switch t := target.(type) {
	case Errno:
		return e.Code == t.Code
	case *Errno:
		return t != nil && e.Code == t.Code
	}
	return false
}

// Wrap 把底层错误挂到某个 Errno 上，保留原始错误信息
func Wrap(e Errno, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", e, err)
}

// Wrapf 同 Wrap，但使用格式化的描述
func Wrapf(e Errno, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var typed Errno
	if errors.As(err, &typed) {
		return typed.Code, typed.Message
	}
	var ptr *Errno
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Code, ptr.Message
	}
	return InternalServerError.Code, err.Error()
}

// HTTPStatus 根据错误码映射 HTTP 状态码
func HTTPStatus(err error) int {
	code, _ := Decode(err)
	switch code {
	case OK.Code:
		return http.StatusOK
	case ErrMissingOrderID.Code, ErrBadOrderID.Code:
		return http.StatusBadRequest
	case ErrRouteNotFound.Code:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrMissingOrderID   = Errno{Code: 10003, Message: "Order ID is required"}
	ErrBadOrderID       = Errno{Code: 10004, Message: "Order ID must be an unsigned integer"}
	ErrRouteNotFound    = Errno{Code: 10005, Message: "Not found"}

	// 配置错误: 进程在任何网络请求之前直接退出
	ErrConfig = Errno{Code: 10101, Message: "Invalid configuration"}

	// 传输层错误, 可重试
	ErrNetwork       = Errno{Code: 10201, Message: "Network error"}
	ErrRangeTooLarge = Errno{Code: 10202, Message: "Block range too large"}
)

// Business Errors (20000+)
var (
	ErrNotFound       = Errno{Code: 20101, Message: "Order not found"}
	ErrDecryption     = Errno{Code: 20201, Message: "Failed to unseal value"}
	ErrPermitRejected = Errno{Code: 20202, Message: "Permit rejected"}
	ErrResolveOrder   = Errno{Code: 20203, Message: "Failed to fetch order"}
	ErrPostOrder      = Errno{Code: 20301, Message: "Failed to post order"}
	ErrTxFailed       = Errno{Code: 20401, Message: "Transaction reverted"}
)
