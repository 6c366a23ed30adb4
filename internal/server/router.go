package server

import (
	"net/http"

	"orderbook-core/internal/handler"
	"orderbook-core/pkg/monitor"

	_ "orderbook-core/docs/swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewAPIRouter 对外的订单接口: GET /order/:id
func NewAPIRouter(orders *handler.OrderHandler) *gin.Engine {
	// 0. 初始化监控指标
	monitor.Init()

	// 1. 创建 Engine (使用默认中间件: Logger, Recovery)
	r := gin.Default()
	r.RedirectTrailingSlash = false

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware())

	// 3. 注册路由
	r.GET("/order/:id", orders.GetOrder)
	r.NoRoute(handler.NotFound)

	return r
}

// WithCORS 允许浏览器前端跨域读取订单
func WithCORS(h http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(h)
}

// NewAdminRouter 健康检查、Prometheus 指标和 Swagger 文档
func NewAdminRouter() *gin.Engine {
	monitor.Init()

	r := gin.Default()
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler())) // 暴露给 Prometheus
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
