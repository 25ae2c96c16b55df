package view

import (
	"strconv"

	"crew-map/internal/boundary"
	"crew-map/internal/districts"
	"crew-map/internal/palette"
)

// 叠加层锚点，与前端样式约定一致
const (
	LabelYAnchor = 0.5
	CrewYAnchor  = 1.2
)

type PolygonLayer struct {
	Key           string           `json:"key"`
	Name          string           `json:"name"`
	Path          []boundary.Point `json:"path"`
	StrokeWeight  int              `json:"strokeWeight"`
	StrokeColor   string           `json:"strokeColor"`
	StrokeOpacity float64          `json:"strokeOpacity"`
	FillColor     string           `json:"fillColor"`
	FillOpacity   float64          `json:"fillOpacity"`
}

type Label struct {
	Name     string               `json:"name"`
	Position districts.Coordinate `json:"position"`
	YAnchor  float64              `json:"yAnchor"`
}

// CrewOverlay：有 logo 时渲染图片加名称，否则仅文字
type CrewOverlay struct {
	Key      string               `json:"key"`
	Position districts.Coordinate `json:"position"`
	YAnchor  float64              `json:"yAnchor"`
	CrewName string               `json:"crewName"`
	LogoURL  string               `json:"logoUrl,omitempty"`
	TextOnly bool                 `json:"textOnly"`
}

// MapView：一次渲染所需的全部图层
type MapView struct {
	MountID  string               `json:"mountId"`
	Center   districts.Coordinate `json:"center"`
	Level    int                  `json:"level"`
	Runtime  RuntimeState         `json:"runtime"`
	Polygons []PolygonLayer       `json:"polygons"`
	Labels   []Label              `json:"labels"`
	Crews    []CrewOverlay        `json:"crews"`
}

// Layers：加载中返回 false；边界尚未到达时多边形为空，随后的调用会带上
func (c *Composer) Layers() (*MapView, bool) {
	s := c.Snapshot()
	if s.Loading {
		return nil, false
	}
	return Compose(s), true
}

// 文档注释：由状态组装图层
// 约束：区名标签恒为 25 个，与数据是否到达无关；多边形按名称取色。
func Compose(s State) *MapView {
	v := &MapView{
		MountID:  s.MountID,
		Center:   districts.SeoulCenter,
		Level:    districts.MapLevel,
		Runtime:  s.Runtime,
		Polygons: make([]PolygonLayer, 0, len(s.Shapes)),
		Labels:   make([]Label, 0, districts.Len()),
		Crews:    make([]CrewOverlay, 0, len(s.Entries)),
	}
	for i, sh := range s.Shapes {
		v.Polygons = append(v.Polygons, PolygonLayer{
			Key:           sh.Name + "-" + strconv.Itoa(i),
			Name:          sh.Name,
			Path:          sh.Path,
			StrokeWeight:  palette.StrokeWeight,
			StrokeColor:   palette.StrokeColor,
			StrokeOpacity: palette.StrokeOpacity,
			FillColor:     palette.ColorFor(sh.Name),
			FillOpacity:   palette.FillOpacity,
		})
	}
	for _, d := range districts.All() {
		v.Labels = append(v.Labels, Label{Name: d.Name, Position: d.Position, YAnchor: LabelYAnchor})
	}
	for _, e := range s.Entries {
		if e.Position == nil {
			continue
		}
		v.Crews = append(v.Crews, CrewOverlay{
			Key:      e.DistrictName,
			Position: *e.Position,
			YAnchor:  CrewYAnchor,
			CrewName: e.GroupName,
			LogoURL:  e.LogoURL,
			TextOnly: e.LogoURL == "",
		})
	}
	return v
}
