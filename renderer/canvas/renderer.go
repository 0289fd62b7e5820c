package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/htmlpng/fonts"
	"github.com/ByLCY/htmlpng/layout"
	"github.com/ByLCY/htmlpng/renderer"
)

// 画布以 1 dot/mm 栅格化，因此 canvas 内部的 1mm 恰好对应输出的 1px。
var resolution = canvas.DPMM(1.0)

const ptPerMm = 72.0 / 25.4

// Renderer draws layout results via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir string
	logger  *slog.Logger

	mu       sync.Mutex
	families map[string]*canvas.FontFamily // by font src
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// NewRenderer creates a canvas renderer; relative font paths resolve against baseDir.
func NewRenderer(baseDir string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{
		baseDir:  baseDir,
		logger:   logger,
		families: map[string]*canvas.FontFamily{},
	}
}

// Render paints the result onto a new RGBA surface of the requested size.
func (r *Renderer) Render(result *layout.Result) (*image.RGBA, error) {
	if result == nil {
		return nil, fmt.Errorf("render result is empty")
	}
	w, h := result.Surface.Width, result.Surface.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("failed to create surface: invalid size %dx%d", w, h)
	}

	c := canvas.New(float64(w), float64(h))
	ctx := canvas.NewContext(c)

	// 背景在默认坐标系（左下角为原点）中铺满整个画布
	ctx.SetFillColor(toColor(result.Surface.Background))
	ctx.DrawPath(0, 0, canvas.Rectangle(float64(w), float64(h)))

	ctx.SetCoordSystem(canvas.CartesianIV) // 之后的坐标以左上角为原点
	for _, tb := range result.Texts {
		font, ok := result.Resources.Fonts[tb.Font]
		if !ok {
			font = layout.DefaultFont()
		}
		face, err := r.face(font, tb.FontSize, tb.Color)
		if err != nil {
			return nil, err
		}
		// 行顶部加上上升部即为基线
		ascent := face.Metrics().Ascent
		y := tb.Y
		for _, line := range tb.Lines {
			ctx.DrawText(tb.X, y+ascent, canvas.NewTextLine(face, line.Content, canvas.Left))
			y += line.Height
		}
	}

	img := rasterizer.Draw(c, resolution, canvas.DefaultColorSpace)
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		return nil, fmt.Errorf("failed to create surface: got %dx%d, want %dx%d", b.Dx(), b.Dy(), w, h)
	}
	r.logger.Debug("canvas surface rasterized", "width", w, "height", h, "texts", len(result.Texts))
	return img, nil
}

// LayoutLines implements layout.Typesetter: one line per explicit newline,
// measured with the font's advance widths and line height.
func (r *Renderer) LayoutLines(content string, font layout.FontResource, fontSize float64) ([]layout.TextLine, error) {
	face, err := r.face(font, fontSize, layout.Black)
	if err != nil {
		return nil, err
	}
	height := face.Metrics().LineHeight
	parts := strings.Split(strings.ReplaceAll(content, "\r", ""), "\n")
	lines := make([]layout.TextLine, 0, len(parts))
	for _, p := range parts {
		lines = append(lines, layout.TextLine{Content: p, Width: face.TextWidth(p), Height: height})
	}
	return lines, nil
}

// face 以像素字号创建字体面；canvas 的字号单位是 pt。
func (r *Renderer) face(font layout.FontResource, sizePx float64, col layout.Color) (*canvas.FontFace, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("invalid font size %gpx", sizePx)
	}
	family, err := r.family(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePx*ptPerMm, toColor(col), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) family(font layout.FontResource) (*canvas.FontFamily, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if family, ok := r.families[font.Src]; ok {
		return family, nil
	}
	family, err := r.loadFamily(font.Name, font.Src)
	if err != nil {
		fallback := layout.DefaultFont()
		r.logger.Warn("font unavailable, using fallback", "font", font.Name, "src", font.Src, "err", err)
		if family, err = r.loadFamily(fallback.Name, fallback.Src); err != nil {
			return nil, err
		}
	}
	r.families[font.Src] = family
	return family, nil
}

func (r *Renderer) loadFamily(name, src string) (*canvas.FontFamily, error) {
	data, err := r.readFont(src)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("failed to load font %s: %w", src, err)
	}
	return family, nil
}

func (r *Renderer) readFont(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("font has no src")
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", src, err)
	}
	return data, nil
}

func toColor(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
