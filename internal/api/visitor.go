package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"crew-map/internal/logger"
	"crew-map/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	bloomBits   = 1 << 20
	bloomHashes = 4
	bloomTTL    = 26 * time.Hour
)

// 文档注释：获取访问者 IP（用于去重）
// 约束：依赖常见代理头顺序；部署于未经信任的代理链路需配合网关过滤。
func visitorIP(r *http.Request) string {
	h := r.Header
	if x := h.Get("x-forwarded-for"); x != "" {
		return strings.TrimSpace(strings.Split(x, ",")[0])
	}
	if x := h.Get("cf-connecting-ip"); x != "" {
		return x
	}
	if x := h.Get("x-real-ip"); x != "" {
		return x
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		return host[:i]
	}
	return host
}

// countVisitor：按天分桶的独立访客计数；redis 不可用时静默跳过
func countVisitor(ctx context.Context, rc redis.Cmdable, r *http.Request) {
	if rc == nil {
		return
	}
	ip := visitorIP(r)
	if ip == "" {
		return
	}
	key := "crewmap:visitors:" + time.Now().UTC().Format("20060102")
	first, err := bloomCheckAndSet(ctx, rc, key, bloomPositions([]byte(ip), bloomBits, bloomHashes), bloomTTL)
	if err != nil {
		logger.L().Debug("visitor_bloom_error", "err", err)
		return
	}
	if first {
		metrics.UniqueVisitorsTotal.Inc()
	}
}
