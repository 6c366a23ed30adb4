package orderbook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"orderbook-core/internal/model"
	"orderbook-core/pkg/errno"
)

// NewOrder POST /new_order 的请求体
type NewOrder struct {
	ID          uint64          `json:"id"`
	Side        model.OrderSide `json:"side"`
	Amount      uint64          `json:"amount"`
	Price       uint64          `json:"price"`
	BlockNumber uint64          `json:"block_number"`
}

// FromRecord 解密后的订单 + 所在区块 -> 请求体
func FromRecord(o model.OrderRecord, block uint64) NewOrder {
	return NewOrder{
		ID:          o.ID,
		Side:        o.OrderSide(),
		Amount:      o.Amount,
		Price:       o.Price,
		BlockNumber: block,
	}
}

// Client 下游撮合服务的 HTTP 客户端
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// PostOrder 非 2xx 返回 errno.ErrPostOrder, 连接失败返回 errno.ErrNetwork
func (c *Client) PostOrder(ctx context.Context, order NewOrder) error {
	body, err := json.Marshal(order)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/new_order", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errno.Wrap(errno.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errno.Wrapf(errno.ErrPostOrder, "order %d: %s: %s", order.ID, resp.Status, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
