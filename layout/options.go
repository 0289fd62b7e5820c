package layout

// BuildOptions 配置布局阶段所需的依赖，例如排版后端与字体。
type BuildOptions struct {
	Typesetter Typesetter
	Font       FontResource // 为空时使用 DefaultFont
	FontSize   Length       // 为零时使用 DefaultFontSize
}

// Typesetter 按显式换行把文本拆成行，并用字体度量给出每行的宽高（px）。
type Typesetter interface {
	LayoutLines(content string, font FontResource, fontSize float64) ([]TextLine, error)
}
