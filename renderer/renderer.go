package renderer

import (
	"image"

	"github.com/ByLCY/htmlpng/layout"
)

// Renderer 将布局结果绘制到离屏位图上。
// Render 返回绘制完成的 RGBA 表面以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) (*image.RGBA, error)
}
