package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Default 是未声明字体时使用的内置字体。
const Default = "builtin:goregular"

var builtin = map[string][]byte{
	"goregular":    goregular.TTF,
	"gobold":       gobold.TTF,
	"goitalic":     goitalic.TTF,
	"gobolditalic": gobolditalic.TTF,
	"gomedium":     gomedium.TTF,
	"gomono":       gomono.TTF,
}

// Builtin 返回可以用 builtin:<name> 引用的字体名，按字母排序。
func Builtin() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsBuiltin 判断 src 是否引用内置字体。
func IsBuiltin(src string) bool {
	return strings.HasPrefix(src, "builtin:") || strings.HasPrefix(src, "built-in:")
}

// Load 返回字体的字节数据。src 可写为 "builtin:goregular"，或者字体文件路径；
// 相对路径基于 baseDir 解析，baseDir 为空时不允许使用相对路径。
func Load(src, baseDir string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("字体 src 为空")
	}
	if IsBuiltin(src) {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		data, ok := builtin[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("找不到内置字体 builtin:%s", name)
		}
		return data, nil
	}
	path := src
	if !filepath.IsAbs(path) {
		if baseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许使用相对字体路径：%s（请改用 builtin: 或绝对路径）", src)
		}
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, nil
}
