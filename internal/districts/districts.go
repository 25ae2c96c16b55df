// 包 districts：首尔 25 个自治区的中心坐标（编译期常量，进程内只读）
package districts

// Coordinate：WGS84 经纬度
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// District：区名与中心坐标
type District struct {
	Name     string     `json:"name"`
	Position Coordinate `json:"position"`
}

// SeoulCenter：地图初始中心
var SeoulCenter = Coordinate{Lat: 37.5665, Lng: 126.978}

// MapLevel：地图初始缩放级别
const MapLevel = 9

var table = [...]District{
	{"종로구", Coordinate{37.59491732, 126.9773213}},
	{"중구", Coordinate{37.56014356, 126.9959681}},
	{"용산구", Coordinate{37.53138497, 126.979907}},
	{"성동구", Coordinate{37.55102969, 127.0410585}},
	{"광진구", Coordinate{37.54670608, 127.0857435}},
	{"동대문구", Coordinate{37.58195655, 127.0548481}},
	{"중랑구", Coordinate{37.59780259, 127.0928803}},
	{"성북구", Coordinate{37.6057019, 127.0175795}},
	{"강북구", Coordinate{37.64347391, 127.011189}},
	{"도봉구", Coordinate{37.66910208, 127.0323688}},
	{"노원구", Coordinate{37.65355446, 127.0700086}},
	{"은평구", Coordinate{37.61895015, 126.9249795}},
	{"서대문구", Coordinate{37.57556734, 126.9360879}},
	{"마포구", Coordinate{37.55909981, 126.903366}},
	{"양천구", Coordinate{37.52044549, 126.857032}},
	{"강서구", Coordinate{37.56123543, 126.8316823}},
	{"구로구", Coordinate{37.49944596, 126.852417}},
	{"금천구", Coordinate{37.45688636, 126.897912}},
	{"영등포구", Coordinate{37.52064103, 126.900181}},
	{"동작구", Coordinate{37.49887739, 126.9513735}},
	{"관악구", Coordinate{37.46739665, 126.946894}},
	{"서초구", Coordinate{37.47214013, 127.031174}},
	{"강남구", Coordinate{37.49664389, 127.0629852}},
	{"송파구", Coordinate{37.5056775, 127.111417}},
	{"강동구", Coordinate{37.55045024, 127.1470118}},
}

var index = func() map[string]Coordinate {
	m := make(map[string]Coordinate, len(table))
	for _, d := range table {
		m[d.Name] = d.Position
	}
	return m
}()

// Lookup：按区名精确匹配（不做空白或大小写归一）
func Lookup(name string) (Coordinate, bool) {
	c, ok := index[name]
	return c, ok
}

// All：按固定顺序返回副本，调用方修改不影响原表
func All() []District {
	out := make([]District, len(table))
	copy(out, table[:])
	return out
}

func Len() int { return len(table) }
