// 包 palette：按区名确定性地选取多边形填充色
package palette

import (
	"math"
	"unicode/utf16"
)

// DefaultColor：名称为空时的填充色
const DefaultColor = "#fff"

// 多边形描边样式，与前端约定保持一致
const (
	StrokeColor   = "#004c80"
	StrokeWeight  = 2
	StrokeOpacity = 0.9
	FillOpacity   = 1.0
)

var colors = [...]string{"#e8f5ff", "#d4edff", "#c0e5ff", "#acceff", "#98c6ff", "#84beff"}

// Colors：返回调色板副本
func Colors() []string {
	out := make([]string, len(colors))
	copy(out, colors[:])
	return out
}

// ColorFor：同名恒得同色，跨进程、跨平台稳定
func ColorFor(name string) string {
	i := Index(name)
	if name == "" || i < 0 {
		return DefaultColor
	}
	return colors[i]
}

// 文档注释：名称哈希到调色板下标
// 背景：与浏览器端历史实现逐位对齐，回归测试按具体区名比对颜色。
// 约束：h 初值 7，逐码点 h = h*31 + 首个 UTF-16 码元，按 float64 累加（长名称会丢失低位精度，与浏览器一致）；
// 取绝对值后对调色板长度取浮点模。名称极长使 h 溢出为 Inf 时无下标，返回 -1。
func Index(name string) int {
	h := 7.0
	for _, r := range name {
		h = h*31 + float64(firstUnit(r))
	}
	if math.IsInf(h, 0) || math.IsNaN(h) {
		return -1
	}
	return int(math.Mod(math.Abs(h), float64(len(colors))))
}

// 非法 UTF-8 在 range 中被解码为 U+FFFD，与浏览器端替换字符一致
func firstUnit(r rune) uint16 {
	if r < 0x10000 {
		return uint16(r)
	}
	hi, _ := utf16.EncodeRune(r)
	return uint16(hi)
}
