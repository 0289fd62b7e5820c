package layout

import (
	"fmt"
	"math"
)

// 画布与文本均为固定值，不受输入文档影响。
const (
	SurfaceWidth  = 800
	SurfaceHeight = 600

	Text  = "Hello, World!"
	TextX = 50.0
	TextY = 50.0

	BodyFont = "Body"
)

// DefaultFontSize 对应常见文本排版引擎的默认字号（96 DPI 下的 10pt）。
var DefaultFontSize = Length{Value: 10, Unit: "pt"}

// DefaultFont 返回内置的默认字体资源。
func DefaultFont() FontResource {
	return FontResource{Name: BodyFont, Src: "embed:goregular"}
}

// Build 计算固定场景：800×600 白色画布，以及位于 (50, 50) 的黑色文本。
func Build(opts BuildOptions) (*Result, error) {
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: typesetter is required")
	}
	font := opts.Font
	if font.Src == "" {
		font.Src = DefaultFont().Src
	}
	if font.Name == "" {
		font.Name = BodyFont
	}
	size := opts.FontSize
	if size.IsZero() {
		size = DefaultFontSize
	}
	sizePx := size.Pixels()
	if sizePx <= 0 || math.IsNaN(sizePx) || math.IsInf(sizePx, 0) {
		return nil, fmt.Errorf("layout: invalid font size %s", size)
	}

	lines, err := opts.Typesetter.LayoutLines(Text, font, sizePx)
	if err != nil {
		return nil, fmt.Errorf("layout: text layout failed: %w", err)
	}
	tb := TextBox{
		Content:  Text,
		X:        TextX,
		Y:        TextY,
		Font:     font.Name,
		FontSize: sizePx,
		Color:    Black,
		Lines:    lines,
	}
	// 不变式：Height == Σ line.Height，Width == max line.Width
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = sizePx
		}
		tb.Width = math.Max(tb.Width, lines[i].Width)
		tb.Height += lines[i].Height
	}

	return &Result{
		Surface: Surface{
			Width:      SurfaceWidth,
			Height:     SurfaceHeight,
			Background: White,
		},
		Texts: []TextBox{tb},
		Resources: ResourceSet{
			Fonts: map[string]FontResource{font.Name: font},
		},
	}, nil
}
