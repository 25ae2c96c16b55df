// 包 ranking：拉取各区本周第一名跑团并与区中心坐标表联结
package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crew-map/internal/districts"
	"crew-map/internal/logger"
	"crew-map/internal/metrics"
)

// DefaultFunction：排行边缘函数名
const DefaultFunction = "get_weekly_top_crew_by_gu"

// Record：边缘函数返回的单条记录，字段名为线上契约不可改
type Record struct {
	GuName   string `json:"gu_name"`
	CrewName string `json:"crew_name"`
	LogoURL  string `json:"logo_url,omitempty"`
}

// 文档注释：联结后的排行项
// 约束：Position 恒非空；未匹配到坐标的记录不会出现在结果中。
type Entry struct {
	DistrictName string                `json:"gu_name"`
	GroupName    string                `json:"crew_name"`
	LogoURL      string                `json:"logo_url,omitempty"`
	Position     *districts.Coordinate `json:"position"`
}

// Invoker：边缘函数调用抽象，测试中可替换
type Invoker interface {
	Invoke(ctx context.Context, fn string) ([]byte, error)
}

type Fetcher struct {
	inv      Invoker
	function string
}

func NewFetcher(inv Invoker, function string) *Fetcher {
	if function == "" {
		function = DefaultFunction
	}
	return &Fetcher{inv: inv, function: function}
}

// 文档注释：拉取并联结排行
// 背景：单次调用、无重试；错误交由视图层记录并降级为零条排行。
// 返回：按后端顺序保留已匹配的记录；调用或解码失败返回错误。
func (f *Fetcher) FetchTopGroups(ctx context.Context) ([]Entry, error) {
	t0 := time.Now()
	metrics.RankingRequestsTotal.Inc()
	body, err := f.inv.Invoke(ctx, f.function)
	metrics.RankingDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	if err != nil {
		metrics.RankingFailTotal.Inc()
		return nil, err
	}
	var recs []Record
	if err := json.Unmarshal(body, &recs); err != nil {
		metrics.RankingFailTotal.Inc()
		return nil, fmt.Errorf("decode %s response: %w", f.function, err)
	}
	logger.L().Info("edge_function_ok", "fn", f.function, "records", len(recs))
	return Join(recs), nil
}

// Join：按区名查坐标，未命中逐条告警丢弃，不中断整批
func Join(recs []Record) []Entry {
	out := make([]Entry, 0, len(recs))
	for _, r := range recs {
		pos, ok := districts.Lookup(r.GuName)
		if !ok {
			logger.L().Warn("ranking_unmatched", "gu_name", r.GuName, "crew_name", r.CrewName)
			metrics.RankingUnmatchedTotal.Inc()
			continue
		}
		p := pos
		out = append(out, Entry{DistrictName: r.GuName, GroupName: r.CrewName, LogoURL: r.LogoURL, Position: &p})
	}
	return out
}
