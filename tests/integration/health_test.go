package integration

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseURL(env, def string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// TestHealthCheck 这是一个集成测试示例
// 它假设 order-scanner 已经在运行 (例如通过 Docker Compose)
// 运行命令: go test -v ./tests/integration/...
func TestHealthCheck(t *testing.T) {
	// 1. 设置目标 URL
	adminURL := baseURL("ADMIN_URL", "http://localhost:9100")

	// 2. 发起请求
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(adminURL + "/health")

	// 3. 断言结果
	if err != nil {
		t.Skip("Skipping integration test: server not running? " + err.Error())
		return
	}
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOrderEndpointRejectsMalformedID(t *testing.T) {
	apiURL := baseURL("API_URL", "http://localhost:3000")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(apiURL + "/order/abc")
	if err != nil {
		t.Skip("Skipping integration test: server not running? " + err.Error())
		return
	}
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Order ID must be an unsigned integer", body["error"])
}
