// Package dsl 解析 quill 视图标记。
package dsl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var documentParser = participle.MustBuild[Document](
	participle.Lexer(quillLexer),
	participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	participle.UseLookahead(2),
)

// SyntaxError 是带位置的语法错误。
type SyntaxError struct {
	Pos lexer.Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parse 从 r 读取并解析标记。
func Parse(r io.Reader) (*Document, error) {
	return parseNamed("", func(name string) (*Document, error) {
		return documentParser.Parse(name, r)
	})
}

// ParseString 解析字符串形式的标记。
func ParseString(input string) (*Document, error) {
	return parseNamed("", func(name string) (*Document, error) {
		return documentParser.ParseString(name, input)
	})
}

// ParseFile 解析 path 处的文件，错误位置中带有文件名。
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	return parseNamed(filepath.Base(path), func(name string) (*Document, error) {
		return documentParser.ParseBytes(name, data)
	})
}

func parseNamed(name string, parse func(string) (*Document, error)) (*Document, error) {
	doc, err := parse(name)
	if err == nil {
		return doc, nil
	}
	var perr participle.Error
	if errors.As(err, &perr) {
		return nil, &SyntaxError{Pos: perr.Position(), Msg: perr.Message()}
	}
	return nil, err
}

// Window 返回第一个 window 段，没有时返回 nil。
func (d *Document) Window() *WindowSection {
	if d == nil {
		return nil
	}
	for _, section := range d.Sections {
		if section.Window != nil {
			return section.Window
		}
	}
	return nil
}

// Templates 按名称索引模板段，同名时后定义的生效。
func (d *Document) Templates() map[string]*TemplateSection {
	out := map[string]*TemplateSection{}
	if d == nil {
		return out
	}
	for _, section := range d.Sections {
		if section.Template != nil {
			out[section.Template.Name] = section.Template
		}
	}
	return out
}

// Text 拼接块中所有文本字面量。
func (b *Block) Text() string {
	if b == nil {
		return ""
	}
	var out strings.Builder
	for _, stmt := range b.Statements {
		if stmt.Text != nil {
			out.WriteString(string(stmt.Text.Value))
		}
	}
	return out.String()
}
