package canvasrenderer

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gomono"

	"github.com/ByLCY/htmlpng/layout"
)

var bodyFont = layout.FontResource{Name: "Body", Src: "embed:goregular"}

// 字号与行高均为 px
const fontSizePX = 16.0

func TestLayoutLinesSingleLine(t *testing.T) {
	r := NewRenderer(".", nil)
	lines, err := r.LayoutLines("Hello, World!", bodyFont, fontSizePX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0].Content != "Hello, World!" {
		t.Fatalf("expected a single line, got %#v", lines)
	}
	if lines[0].Width <= 0 || lines[0].Height <= 0 {
		t.Fatalf("line must have positive metrics: %#v", lines[0])
	}
	// 13 个字符在 16px 下宽度应明显小于画布宽度
	if lines[0].Width > 400 {
		t.Fatalf("unexpected line width %g", lines[0].Width)
	}
}

func TestLayoutLinesSplitsOnNewlines(t *testing.T) {
	r := NewRenderer(".", nil)
	lines, err := r.LayoutLines("foo\r\n\nbar", bodyFont, fontSizePX)
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines including blank, got %#v", lines)
	}
	if lines[0].Content != "foo" || lines[1].Content != "" || lines[2].Content != "bar" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
	if lines[1].Width != 0 {
		t.Fatalf("blank line width = %g, want 0", lines[1].Width)
	}
	for i, ln := range lines {
		if ln.Height != lines[0].Height {
			t.Fatalf("line %d height %g differs from %g", i, ln.Height, lines[0].Height)
		}
	}
}

func TestLayoutLinesInvalidSize(t *testing.T) {
	r := NewRenderer(".", nil)
	if _, err := r.LayoutLines("x", bodyFont, 0); err == nil {
		t.Fatal("expected error for zero font size")
	}
}

func TestPathFont(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mono.ttf"), gomono.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	r := NewRenderer(dir, nil)
	for _, src := range []string{"mono.ttf", filepath.Join(dir, "mono.ttf")} {
		if _, err := r.loadFamily("Mono", src); err != nil {
			t.Fatalf("loadFamily(%q) error: %v", src, err)
		}
	}
	if _, err := r.loadFamily("Ghost", "ghost.ttf"); err == nil {
		t.Fatal("expected error for missing font file")
	}
	if _, err := r.loadFamily("Empty", ""); err == nil {
		t.Fatal("expected error for empty src")
	}
}

func TestUnknownFontFallsBack(t *testing.T) {
	r := NewRenderer(t.TempDir(), nil)
	font := layout.FontResource{Name: "Ghost", Src: "ghost.ttf"}
	lines, err := r.LayoutLines("Hello", font, fontSizePX)
	if err != nil {
		t.Fatalf("expected fallback font, got error: %v", err)
	}
	if len(lines) != 1 || lines[0].Width <= 0 {
		t.Fatalf("fallback layout produced %#v", lines)
	}
}

func TestRenderProducesSurface(t *testing.T) {
	r := NewRenderer(".", nil)
	res, err := layout.Build(layout.BuildOptions{Typesetter: r})
	if err != nil {
		t.Fatalf("layout.Build error: %v", err)
	}
	img, err := r.Render(res)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Fatalf("surface = %dx%d, want 800x600", b.Dx(), b.Dy())
	}
	assertWhite(t, img, 700, 500)
	assertWhite(t, img, 20, 20)
	if !hasDarkPixel(img, image.Rect(50, 45, 250, 85)) {
		t.Fatal("expected text pixels near (50, 50)")
	}
	if hasDarkPixel(img, image.Rect(0, 0, 800, 40)) || hasDarkPixel(img, image.Rect(0, 100, 800, 600)) {
		t.Fatal("unexpected dark pixels outside the text region")
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRenderer(".", nil)
	if _, err := r.Render(nil); err == nil {
		t.Fatal("expected error for nil result")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatal("expected error for zero-size surface")
	}
}

func assertWhite(t *testing.T, img *image.RGBA, x, y int) {
	t.Helper()
	c := img.RGBAAt(x, y)
	if c.R < 250 || c.G < 250 || c.B < 250 || c.A < 250 {
		t.Fatalf("pixel (%d,%d) = %v, want opaque white", x, y, c)
	}
}

func hasDarkPixel(img *image.RGBA, rect image.Rectangle) bool {
	rect = rect.Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if img.RGBAAt(x, y).R < 160 {
				return true
			}
		}
	}
	return false
}
