package handler

import (
	"strconv"
	"strings"

	"orderbook-core/internal/handler/response"
	"orderbook-core/internal/service"
	"orderbook-core/pkg/errno"
	"orderbook-core/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	resolver service.Resolver
}

func NewOrderHandler(resolver service.Resolver) *OrderHandler {
	return &OrderHandler{resolver: resolver}
}

// GetOrder 查询并解密订单
// @Summary 查询订单
// @Description 读取链上加密订单并用 permit 解密 side / amount / price
// @Tags Order
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} model.OrderRecord
// @Failure 400 {object} response.ErrorBody "Order ID is required / Order ID must be an unsigned integer"
// @Failure 500 {object} response.ErrorBody
// @Router /order/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	// 1. 解析 ID
	idStr := strings.TrimSpace(c.Param("id"))
	if idStr == "" {
		response.Error(c, errno.ErrMissingOrderID)
		return
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		response.Error(c, errno.ErrBadOrderID)
		return
	}

	// 2. 解析订单
	order, err := h.resolver.Resolve(c.Request.Context(), id)
	if err != nil {
		logger.Error("Error fetching order", zap.Uint64("order_id", id), zap.Error(err))
		response.Error(c, errno.ErrResolveOrder)
		return
	}

	response.JSON(c, order)
}

// NotFound 未注册的路径/方法
// GET /order 与 GET /order/ 视为缺少订单 ID
func NotFound(c *gin.Context) {
	if c.Request.Method == "GET" {
		if p := strings.TrimRight(c.Request.URL.Path, "/"); p == "/order" {
			response.Error(c, errno.ErrMissingOrderID)
			return
		}
	}
	response.Error(c, errno.ErrRouteNotFound)
}
