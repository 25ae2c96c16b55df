// 包 boundary：拉取行政区边界 GeoJSON 并展平为命名多边形列表
package boundary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"crew-map/internal/logger"
	"crew-map/internal/metrics"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	snippetRunes = 200
	maxBodyBytes = 64 << 20
)

// 文档注释：边界资源返回非 2xx
// 背景：调用方需区分传输失败（net 错误）与服务端明确拒绝；携带状态码、状态文本与截断的响应片段便于排查。
type FetchError struct {
	Status     int
	StatusText string
	Snippet    string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("geojson fetch failed: %d %s - %s", e.Status, e.StatusText, e.Snippet)
}

// 文档注释：边界加载器
// 背景：Source 可为 http(s) 地址或本地路径（含 file://），便于随 UI 一起分发静态文件。
// 约束：Client 为空时使用 10s 超时的默认客户端；不做重试。
type Loader struct {
	Source string
	Client *http.Client
}

func NewLoader(source string, client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Loader{Source: source, Client: client}
}

// Load：拉取并解析；任何失败仅记录日志并返回空列表，地图无边界也需可渲染
func (l *Loader) Load(ctx context.Context) []Shape {
	t0 := time.Now()
	defer func() { metrics.BoundaryDurationMs.Observe(float64(time.Since(t0).Milliseconds())) }()
	data, err := l.Fetch(ctx)
	if err != nil {
		logger.L().Error("boundary_fetch_error", "source", l.Source, "err", err)
		metrics.BoundaryLoadsTotal.WithLabelValues("fetch_error").Inc()
		return []Shape{}
	}
	shapes, err := Parse(data)
	if err != nil {
		logger.L().Error("boundary_parse_error", "source", l.Source, "err", err)
		metrics.BoundaryLoadsTotal.WithLabelValues("parse_error").Inc()
		return []Shape{}
	}
	metrics.BoundaryLoadsTotal.WithLabelValues("ok").Inc()
	metrics.BoundaryShapes.Set(float64(len(shapes)))
	logger.L().Info("boundary_load_ok", "source", l.Source, "shapes", len(shapes))
	if len(shapes) > 0 {
		s := shapes[0]
		logger.L().Debug("boundary_first_sample", "name", s.Name, "path", s.Path[:min(5, len(s.Path))])
	}
	return shapes
}

// Fetch：读取原始字节；不依据 Content-Type 判断是否可解析（对象存储常返回错误类型）
func (l *Loader) Fetch(ctx context.Context) ([]byte, error) {
	src := l.Source
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return os.ReadFile(strings.TrimPrefix(src, "file://"))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	logger.L().Debug("boundary_fetch_status", "status", resp.StatusCode, "content_type", resp.Header.Get("Content-Type"))
	body, rerr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Status: resp.StatusCode, StatusText: statusText(resp), Snippet: truncateRunes(string(body), snippetRunes)}
	}
	if rerr != nil {
		return nil, fmt.Errorf("read geojson body: %w", rerr)
	}
	return body, nil
}

// 要素与属性均保留原始字节，逐个宽松解码
type rawCollection struct {
	Features []json.RawMessage `json:"features"`
}

type rawFeature struct {
	Geometry   json.RawMessage `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

// 文档注释：解析 GeoJSON 并展平为 Shape 列表
// 背景：逐要素独立解码几何，单个坏要素只跳过自身，不影响整个集合。
// 约束：
// - features 缺失视为 0 个要素；要素本身不是对象时跳过；
// - properties 不是对象或名称不是字符串时按序号命名；
// - 无几何跳过；Polygon 取第一环（外环），空则跳过；
// - MultiPolygon 逐子面处理，空外环单独丢弃，兄弟子面保留；
// - 其它类型跳过；源坐标为 [lng, lat]，输出 {lat, lng}。
// 返回：顶层不是合法 JSON 对象时返回错误。
func Parse(data []byte) ([]Shape, error) {
	var fc rawCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	logger.L().Debug("boundary_features", "count", len(fc.Features))
	out := []Shape{}
	for i, raw := range fc.Features {
		var f rawFeature
		if err := json.Unmarshal(raw, &f); err != nil {
			logger.L().Warn("boundary_bad_feature", "feature", i, "err", err)
			metrics.BoundaryFeaturesSkipped.WithLabelValues("malformed").Inc()
			continue
		}
		out = append(out, featureShapes(i, f)...)
	}
	return out, nil
}

func featureShapes(idx int, f rawFeature) []Shape {
	if isNull(f.Geometry) {
		logger.L().Warn("boundary_no_geometry", "feature", idx)
		metrics.BoundaryFeaturesSkipped.WithLabelValues("no_geometry").Inc()
		return nil
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(f.Geometry, &head); err != nil {
		logger.L().Warn("boundary_bad_geometry", "feature", idx, "err", err)
		metrics.BoundaryFeaturesSkipped.WithLabelValues("malformed").Inc()
		return nil
	}
	if head.Type != "Polygon" && head.Type != "MultiPolygon" {
		logger.L().Warn("boundary_unsupported_geometry", "feature", idx, "type", head.Type)
		metrics.BoundaryFeaturesSkipped.WithLabelValues("unsupported").Inc()
		return nil
	}
	g, err := geojson.UnmarshalGeometry(f.Geometry)
	if err != nil {
		logger.L().Warn("boundary_bad_geometry", "feature", idx, "type", head.Type, "err", err)
		metrics.BoundaryFeaturesSkipped.WithLabelValues("malformed").Inc()
		return nil
	}
	name := propName(f.Properties)
	switch geom := g.Geometry().(type) {
	case orb.Polygon:
		path := outerPath(geom)
		if len(path) == 0 {
			logger.L().Warn("boundary_empty_polygon", "feature", idx)
			metrics.BoundaryFeaturesSkipped.WithLabelValues("empty_ring").Inc()
			return nil
		}
		if name == "" {
			name = "f" + strconv.Itoa(idx)
		}
		return []Shape{{Name: name, Path: path}}
	case orb.MultiPolygon:
		var out []Shape
		for j, poly := range geom {
			path := outerPath(poly)
			if len(path) == 0 {
				logger.L().Warn("boundary_empty_multipolygon_part", "feature", idx, "part", j)
				metrics.BoundaryFeaturesSkipped.WithLabelValues("empty_ring").Inc()
				continue
			}
			n := name
			if n == "" {
				n = "f" + strconv.Itoa(idx) + "_p" + strconv.Itoa(j)
			}
			out = append(out, Shape{Name: n, Path: path})
		}
		return out
	}
	return nil
}

// 外环坐标翻转为 {lat, lng}
func outerPath(p orb.Polygon) []Point {
	if len(p) == 0 || len(p[0]) == 0 {
		return nil
	}
	path := make([]Point, len(p[0]))
	for i, c := range p[0] {
		path[i] = Point{Lat: c.Lat(), Lng: c.Lon()}
	}
	return path
}

func propName(raw json.RawMessage) string {
	var props map[string]any
	if isNull(raw) || json.Unmarshal(raw, &props) != nil {
		return ""
	}
	if v, ok := props[NameProperty].(string); ok {
		return v
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if t := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); t != "" {
		return t
	}
	return http.StatusText(resp.StatusCode)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// IsFetchError：便于调用方区分服务端拒绝
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
