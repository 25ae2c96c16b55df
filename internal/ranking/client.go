package ranking

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crew-map/internal/logger"
)

// ErrNotConfigured：缺少后端地址或匿名密钥，不发起请求
var ErrNotConfigured = errors.New("ranking backend not configured")

// 文档注释：边缘函数返回非 2xx
// 约束：Body 截断至 512 字节，仅用于日志。
type InvokeError struct {
	Function string
	Status   int
	Body     string
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("edge function %q failed: status %d: %s", e.Function, e.Status, e.Body)
}

// 文档注释：Supabase 边缘函数调用客户端
// 背景：对齐 supabase-js functions.invoke 的 HTTP 形态（POST /functions/v1/<name>，Bearer 匿名密钥 + apikey 头）。
// 约束：BaseURL 与 AnonKey 在进程启动时由配置注入；超时由 HTTP 客户端控制，不做重试。
type Client struct {
	BaseURL string
	AnonKey string
	HTTP    *http.Client
}

func NewClient(baseURL, anonKey string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), AnonKey: anonKey, HTTP: hc}
}

// Invoke：无参数调用指定函数，返回原始响应体
func (c *Client) Invoke(ctx context.Context, fn string) ([]byte, error) {
	if c.BaseURL == "" || c.AnonKey == "" {
		return nil, ErrNotConfigured
	}
	u := c.BaseURL + "/functions/v1/" + fn
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.AnonKey)
	req.Header.Set("apikey", c.AnonKey)
	req.Header.Set("Content-Type", "application/json")
	logger.L().Debug("edge_function_req", "fn", fn)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", fn, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > 512 {
			body = body[:512]
		}
		return nil, &InvokeError{Function: fn, Status: resp.StatusCode, Body: string(body)}
	}
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", fn, err)
	}
	return body, nil
}
