package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Document 是一个视图文件：view <名称> <版本> { 段落... }。
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'view' @Ident" json:"name"`
	Version  string         `parser:"@Ident" json:"version"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*" json:"sections"`
}

// Section 是顶层段落，四个字段中恰有一个非空。
type Section struct {
	Meta      *MetaSection      `parser:"  @@" json:"meta,omitempty"`
	Resources *ResourcesSection `parser:"| @@" json:"resources,omitempty"`
	Template  *TemplateSection  `parser:"| @@" json:"template,omitempty"`
	Window    *WindowSection    `parser:"| @@" json:"window,omitempty"`
}

// Kind 返回段落类型名。
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Resources != nil:
		return "resources"
	case s.Template != nil:
		return "template"
	case s.Window != nil:
		return "window"
	}
	return "unknown"
}

type MetaSection struct {
	Block *Block `parser:"'meta' @@" json:"block"`
}

// ResourcesSection 声明 font、color 与 style 资源。
type ResourcesSection struct {
	Block *Block `parser:"'resources' @@" json:"block"`
}

// TemplateSection 是可复用的子树，用 `use 名称` 展开。
type TemplateSection struct {
	Name  string `parser:"'template' @Ident" json:"name"`
	Block *Block `parser:"@@" json:"block"`
}

// WindowSection 是视图树的根：window 宽 高 [键 值]... { ... }。
type WindowSection struct {
	Spec  WindowSpec `parser:"'window' @@" json:"spec"`
	Block *Block     `parser:"@@" json:"block"`
}

type WindowSpec struct {
	Params []*Lexeme `parser:"@@*" json:"params"`
}

// Block 是花括号包围的语句列表，语句之间用换行或分号分隔，也可以紧挨着书写。
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'" json:"statements"`
}

// Statement 是赋值、命令或文本字面量之一。
type Statement struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Assignment *Assignment    `parser:"  @@" json:"assignment,omitempty"`
	Command    *Command       `parser:"| @@" json:"command,omitempty"`
	Text       *TextLiteral   `parser:"| @@" json:"text,omitempty"`
}

// Assignment 形如 key: value。
type Assignment struct {
	Key   string `parser:"@Ident" json:"key"`
	Value *Value `parser:"':' Newline* @@" json:"value"`
}

// Command 是视图或资源声明：名称、参数以及可选的子块。
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident" json:"name"`
	Args  []*Lexeme      `parser:"@@*" json:"args,omitempty"`
	Block *Block         `parser:"( Newline* @@ )?" json:"block,omitempty"`
}

type TextLiteral struct {
	Value StringLiteral `parser:"@String" json:"value"`
}

// Value 是赋值右侧的值。
type Value struct {
	String *StringLiteral `parser:"  @String" json:"string,omitempty"`
	Number *string        `parser:"| @Number" json:"number,omitempty"`
	Color  *string        `parser:"| @Color" json:"color,omitempty"`
	Array  *ArrayValue    `parser:"| @@" json:"array,omitempty"`
	Object *InlineObject  `parser:"| @@" json:"object,omitempty"`
	Expr   *Expression    `parser:"| @@" json:"expr,omitempty"`
}

type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'" json:"values"`
}

type InlineObject struct {
	Entries []*Assignment `parser:"'{' Newline* ( @@ Newline* ( (';' | Newline+) Newline* @@ Newline* )* )? Newline* '}'" json:"entries"`
}

// Text 把标量值转换为字符串；表达式按原样拼接，数组与对象返回空串。
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Expr != nil:
		return v.Expr.String()
	}
	return ""
}

// List 返回数组中的非空标量；标量值视为只有一个元素的数组。
func (v *Value) List() []string {
	if v == nil {
		return nil
	}
	if v.Array == nil {
		if s := v.Text(); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		if s := item.Text(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Expression 保存未求值的记号序列，例如 bold、Accent 或 a.b[0]。
type Expression struct {
	Parts []*Lexeme `json:"parts"`
}

func (e *Expression) String() string {
	var b strings.Builder
	for _, p := range e.Parts {
		b.WriteString(p.Value)
	}
	return b.String()
}

// Parse 读取到换行、花括号、分号或逗号为止；括号内部可以跨越这些记号。
func (e *Expression) Parse(lex *lexer.PeekingLexer) error {
	var parts []*Lexeme
	depth := 0
	for !exprEnds(lex.Peek(), depth) {
		l, err := takeLexeme(lex)
		if err != nil {
			return err
		}
		switch l.Raw {
		case "(", "[":
			depth++
		case ")", "]":
			depth = max(depth-1, 0)
		}
		parts = append(parts, &l)
	}
	if len(parts) == 0 {
		return participle.NextMatch
	}
	e.Parts = parts
	return nil
}

// StringLiteral 在捕获时去掉引号并处理转义。
type StringLiteral string

func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("字符串字面量为空")
	}
	v, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(v)
	return nil
}
