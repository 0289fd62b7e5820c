package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Default 是未指定字体时使用的内置字体。
const Default = "goregular"

var builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"goitalic":  goitalic.TTF,
	"gomedium":  gomedium.TTF,
	"gomono":    gomono.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:goregular" 或直接 "goregular"，
// 也接受带 .ttf 后缀的写法。
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "embed:")
	clean := strings.TrimSuffix(strings.ToLower(name), ".ttf")
	if clean == "" {
		clean = Default
	}
	data, ok := builtin[clean]
	if !ok {
		return nil, fmt.Errorf("unknown built-in font %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names lists the built-in font names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
