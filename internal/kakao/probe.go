package kakao

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"crew-map/internal/logger"
)

// 文档注释：地图运行时句柄
// 背景：浏览器端以全局 kakao.maps 判断 SDK 是否就绪；服务端以 SDK 脚本可取回且导出 kakao.maps 作为等价判定。
type Runtime struct {
	SDKURL    string
	CheckedAt time.Time
}

// 只读取脚本头部做能力判定，避免整包下载
const sniffLimit = 64 << 10

var capability = []byte("kakao.maps")

// NewProbe：构造单次探测函数，供 ready.Gate 轮询
// 参数：client 为空时使用 5s 超时的默认客户端；sdkURL 需已带 appkey。
// 返回：200 且脚本内含 kakao.maps 时 ok=true；网络错误、非 200、缺少能力均视为尚未就绪。
func NewProbe(client *http.Client, sdkURL string) func(ctx context.Context) (*Runtime, bool) {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return func(ctx context.Context) (*Runtime, bool) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, sdkURL, nil)
		if err != nil {
			logger.L().Error("kakao_probe_request_error", "err", err)
			return nil, false
		}
		resp, err := client.Do(req)
		if err != nil {
			logger.L().Debug("kakao_probe_http_error", "err", err)
			return nil, false
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			logger.L().Debug("kakao_probe_status", "status", resp.StatusCode)
			return nil, false
		}
		head, err := io.ReadAll(io.LimitReader(resp.Body, sniffLimit))
		if err != nil || !bytes.Contains(head, capability) {
			logger.L().Debug("kakao_probe_capability_missing", "err", err)
			return nil, false
		}
		return &Runtime{SDKURL: sdkURL, CheckedAt: time.Now()}, true
	}
}
