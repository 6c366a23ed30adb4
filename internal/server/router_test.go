package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orderbook-core/internal/handler"
	"orderbook-core/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okResolver struct{}

func (okResolver) Resolve(_ context.Context, id uint64) (model.OrderRecord, error) {
	return model.OrderRecord{ID: id, Amount: 1, Price: 2}, nil
}

func TestAPIRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := WithCORS(NewAPIRouter(handler.NewOrderHandler(okResolver{})), []string{"*"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/order/3", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	api.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":3,"side":false,"amount":1,"price":2}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	// 管理接口不在 API 端口上
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/metrics", nil)
	api.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	admin := NewAdminRouter()

	for _, path := range []string{"/health", "/metrics", "/swagger/doc.json"} {
		w := httptest.NewRecorder()
		// gin-swagger 按 RequestURI 匹配, 需要用 httptest.NewRequest
		req := httptest.NewRequest("GET", path, nil)
		admin.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestSwaggerDocumentsBothBadRequestMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	admin := NewAdminRouter()

	w := httptest.NewRecorder()
	admin.ServeHTTP(w, httptest.NewRequest("GET", "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Order ID is required")
	assert.Contains(t, w.Body.String(), "Order ID must be an unsigned integer")
}

func TestAppRunStopsOnCancel(t *testing.T) {
	app := New(Config{HttpPort: "0", AdminPort: "0"}, http.NotFoundHandler(), http.NotFoundHandler())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return")
	}
}
