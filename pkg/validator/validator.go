package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// 报错时使用 flag 名而不是结构体字段名
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := f.Tag.Get("flag"); name != "" {
				return "--" + name
			}
			return f.Name
		})
	})
	return validate
}

// Struct 校验一个带 validate tag 的结构体, 失败时返回可读的错误
func Struct(v interface{}) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	return errors.New(GetErrorMsg(err))
}

// GetErrorMsg translates validation errors into user-friendly messages
func GetErrorMsg(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var errMsgs []string
		for _, e := range validationErrors {
			field := e.Field()
			tag := e.Tag()
			param := e.Param()

			switch tag {
			case "required":
				errMsgs = append(errMsgs, fmt.Sprintf("%s is required", field))
			case "oneof":
				errMsgs = append(errMsgs, fmt.Sprintf("%s must be one of [%s]", field, param))
			case "max", "lte":
				errMsgs = append(errMsgs, fmt.Sprintf("%s must be <= %s", field, param))
			case "min", "gte":
				errMsgs = append(errMsgs, fmt.Sprintf("%s must be >= %s", field, param))
			case "eth_addr":
				errMsgs = append(errMsgs, fmt.Sprintf("%s must be a 0x-prefixed 20-byte address", field))
			default:
				errMsgs = append(errMsgs, fmt.Sprintf("%s failed on %s", field, tag))
			}
		}
		return strings.Join(errMsgs, "; ")
	}
	return err.Error()
}
