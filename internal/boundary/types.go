package boundary

// 点坐标（WGS84），输出顺序固定为纬度在前
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// 文档注释：可渲染的单个多边形
// 约束：Path 非空；仅保留外环，洞不参与渲染。来源要素没有可用外环时整体丢弃而不是输出空形状。
type Shape struct {
	Name string  `json:"name"`
	Path []Point `json:"path"`
}

// 名称所在的属性字段
const NameProperty = "SIG_KOR_NM"
