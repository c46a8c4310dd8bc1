package dsl

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// quillLexer 切分标记文本。数字可以带单位后缀：px pt mm cm in 表示长度，
// % 表示比例，! 表示差值，x 表示倍数。
var quillLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Newline", Pattern: `\n+`},
	{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
	{Name: "HashComment", Pattern: `#[^\n]*`},
	{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:px|pt|mm|cm|in|%|x|!)?`},
	{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
	{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
	{Name: "LBrace", Pattern: `{`},
	{Name: "RBrace", Pattern: `}`},
})

// tokenKinds 缓存自定义解析需要区分的记号类型。
type tokenKinds struct {
	names   map[lexer.TokenType]string
	newline lexer.TokenType
	lbrace  lexer.TokenType
	rbrace  lexer.TokenType
	symbol  lexer.TokenType
	str     lexer.TokenType
}

var kinds = newTokenKinds(quillLexer.Symbols())

func newTokenKinds(symbols map[string]lexer.TokenType) tokenKinds {
	k := tokenKinds{names: make(map[lexer.TokenType]string, len(symbols))}
	for name, tt := range symbols {
		k.names[tt] = name
	}
	lookup := func(name string) lexer.TokenType {
		tt, ok := symbols[name]
		if !ok {
			panic(fmt.Sprintf("dsl: 记号 %s 未定义", name))
		}
		return tt
	}
	k.newline = lookup("Newline")
	k.lbrace = lookup("LBrace")
	k.rbrace = lookup("RBrace")
	k.symbol = lookup("Symbol")
	k.str = lookup("String")
	return k
}

// Lexeme 是命令参数与表达式中的单个记号，字符串已经去掉引号。
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

func (l *Lexeme) String() string { return l.Raw }

// Is 判断记号类型，例如 l.Is("Ident")。
func (l *Lexeme) Is(typ string) bool { return l != nil && l.Type == typ }

// Parse 实现 participle.Parseable：参数在换行、花括号或分号处结束。
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	if argEnds(lex.Peek()) {
		return participle.NextMatch
	}
	next, err := takeLexeme(lex)
	if err != nil {
		return err
	}
	*l = next
	return nil
}

func takeLexeme(lex *lexer.PeekingLexer) (Lexeme, error) {
	tok := lex.Next()
	if tok.EOF() {
		return Lexeme{}, participle.NextMatch
	}
	name, ok := kinds.names[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	l := Lexeme{Type: name, Value: tok.Value, Raw: tok.Value, Pos: tok.Pos}
	if tok.Type == kinds.str {
		v, err := strconv.Unquote(tok.Value)
		if err != nil {
			return Lexeme{}, fmt.Errorf("%s: 字符串 %s 无法解析: %w", tok.Pos, tok.Value, err)
		}
		l.Value = v
	}
	return l, nil
}

func argEnds(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case kinds.newline, kinds.lbrace, kinds.rbrace:
		return true
	case kinds.symbol:
		return tok.Value == ";"
	}
	return false
}

// exprEnds 判断表达式是否在 tok 处结束；depth 为括号与方括号的嵌套深度，
// 嵌套内部的换行、逗号与分号都属于表达式本身。
func exprEnds(tok *lexer.Token, depth int) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	if depth > 0 {
		return false
	}
	switch tok.Type {
	case kinds.newline, kinds.lbrace, kinds.rbrace:
		return true
	case kinds.symbol:
		switch tok.Value {
		case ";", ",", "]", ")":
			return true
		}
	}
	return false
}
