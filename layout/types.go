package layout

// 该文件定义渲染场景描述，供布局计算、各渲染后端与调试 JSON 共用。
// 所有坐标与尺寸均以像素（px）为单位，原点在画布左上角。

// Result 保存一次渲染所需的画布与已排版的文本块。
type Result struct {
	Surface   Surface     `json:"surface"`
	Texts     []TextBox   `json:"texts"`
	Resources ResourceSet `json:"resources"`
}

// Surface 描述离屏位图的尺寸与底色。
type Surface struct {
	Width      int   `json:"width"`
	Height     int   `json:"height"`
	Background Color `json:"background"`
}

// ResourceSet 记录文本块引用的字体。
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// FontResource 描述字体资源，src 可以是文件路径或 embed:<name> 内置字体。
type FontResource struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}

// Color 采用 0-255 的 RGB 数值，始终不透明。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

var (
	White = Color{R: 255, G: 255, B: 255}
	Black = Color{}
)

// TextBox 表示一个已经排好坐标的文本块，(X, Y) 为首行顶部左侧。
type TextBox struct {
	Content  string     `json:"content"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Font     string     `json:"font"`
	FontSize float64    `json:"fontSize"`
	Color    Color      `json:"color"`
	Lines    []TextLine `json:"lines"`
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}
