package response

import (
	"net/http"

	"orderbook-core/pkg/errno"

	"github.com/gin-gonic/gin"
)

// Response 管理接口 (/health 等) 使用的统一结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"msg"`
	Data    interface{} `json:"data"`
}

// ErrorBody 订单接口的错误体: {"error": "..."}
type ErrorBody struct {
	Error string `json:"error"`
}

// Success returns a success response with data
func Success(c *gin.Context, data interface{}) {
	if data == nil {
		data = gin.H{} // Return empty object instead of null
	}
	c.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// JSON 直接返回数据本身, 不包一层
func JSON(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error 按错误码决定 HTTP 状态码, 返回 {"error": message}
func Error(c *gin.Context, err error) {
	_, msg := errno.Decode(err)
	c.AbortWithStatusJSON(errno.HTTPStatus(err), ErrorBody{Error: msg})
}
