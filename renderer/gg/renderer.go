// Package ggrenderer draws layout results with github.com/fogleman/gg and
// FreeType glyph rasterization.
package ggrenderer

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/htmlpng/fonts"
	"github.com/ByLCY/htmlpng/layout"
	"github.com/ByLCY/htmlpng/renderer"
)

// Renderer draws on an *image.RGBA through a gg.Context.
type Renderer struct {
	baseDir string
	logger  *slog.Logger

	mu    sync.Mutex
	fonts map[string]*truetype.Font // by src
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// NewRenderer creates a gg renderer; relative font paths resolve against baseDir.
func NewRenderer(baseDir string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{
		baseDir: baseDir,
		logger:  logger,
		fonts:   map[string]*truetype.Font{},
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
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	dc := gg.NewContextForRGBA(img)

	setColor(dc, result.Surface.Background)
	dc.Clear()

	for _, tb := range result.Texts {
		fontRes, ok := result.Resources.Fonts[tb.Font]
		if !ok {
			fontRes = layout.DefaultFont()
		}
		if err := r.drawTextBox(dc, tb, fontRes); err != nil {
			return nil, err
		}
	}
	r.logger.Debug("gg surface painted", "width", w, "height", h, "texts", len(result.Texts))
	return img, nil
}

func (r *Renderer) drawTextBox(dc *gg.Context, tb layout.TextBox, res layout.FontResource) error {
	face, err := r.face(res, tb.FontSize)
	if err != nil {
		return err
	}
	defer face.Close()
	dc.SetFontFace(face)
	setColor(dc, tb.Color)

	// 行顶部加上上升部即为基线
	ascent := fixedToFloat(face.Metrics().Ascent)
	y := tb.Y
	for _, line := range tb.Lines {
		dc.DrawString(line.Content, tb.X, y+ascent)
		y += line.Height
	}
	return nil
}

// LayoutLines implements layout.Typesetter: one line per explicit newline,
// measured in pixels.
func (r *Renderer) LayoutLines(content string, res layout.FontResource, fontSize float64) ([]layout.TextLine, error) {
	face, err := r.face(res, fontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)

	height := fixedToFloat(face.Metrics().Height)
	parts := strings.Split(strings.ReplaceAll(content, "\r", ""), "\n")
	lines := make([]layout.TextLine, 0, len(parts))
	for _, p := range parts {
		w, _ := dc.MeasureString(p)
		lines = append(lines, layout.TextLine{Content: p, Width: w, Height: height})
	}
	return lines, nil
}

func (r *Renderer) face(res layout.FontResource, sizePx float64) (font.Face, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("invalid font size %gpx", sizePx)
	}
	f, err := r.font(res)
	if err != nil {
		return nil, err
	}
	// truetype 默认 72 DPI，此时 Size 的单位即为像素
	return truetype.NewFace(f, &truetype.Options{Size: sizePx, Hinting: font.HintingNone}), nil
}

func (r *Renderer) font(res layout.FontResource) (*truetype.Font, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.fonts[res.Src]; ok {
		return f, nil
	}
	f, err := r.parseFont(res)
	if err != nil {
		r.logger.Warn("font unavailable, using fallback", "font", res.Name, "src", res.Src, "err", err)
		f, err = r.parseFont(layout.DefaultFont())
		if err != nil {
			return nil, err
		}
	}
	r.fonts[res.Src] = f
	return f, nil
}

func (r *Renderer) parseFont(res layout.FontResource) (*truetype.Font, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case res.Src == "":
		return nil, fmt.Errorf("font %s has no src", res.Name)
	case strings.HasPrefix(res.Src, "embed:"):
		data, err = fonts.Load(res.Src)
	default:
		path := res.Src
		if !filepath.IsAbs(path) && r.baseDir != "" {
			path = filepath.Join(r.baseDir, path)
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", res.Src, err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", res.Src, err)
	}
	return f, nil
}

func setColor(dc *gg.Context, c layout.Color) {
	dc.SetRGB255(c.R, c.G, c.B)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
