package layout

import "unicode"

// unicharKind 是断行时使用的码点分类。
type unicharKind uint8

const (
	kindLineFeed unicharKind = iota
	kindSpace
	kindPunctuation
	kindDigit
	kindUpperLetter
	kindLowerLetter
	kindOther // 表意文字等，每个字符都可以单独成词
)

// unichar 是分类后的码点，index 指向原始文本中的位置。
type unichar struct {
	r     rune
	kind  unicharKind
	index int
}

func isLineFeed(r rune) bool {
	switch r {
	case '\n', '\v', '\f', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

func classify(r rune) unicharKind {
	switch {
	case isLineFeed(r):
		return kindLineFeed
	case r == '\u00a0' || r == '\u202f':
		// 不换行空格按字母处理，不参与断行与合并
		return kindLowerLetter
	case r == ' ' || r == '\t' || unicode.Is(unicode.Zs, r):
		return kindSpace
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return kindPunctuation
	case unicode.IsDigit(r):
		return kindDigit
	case unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul):
		return kindOther
	case unicode.IsUpper(r):
		return kindUpperLetter
	default:
		return kindLowerLetter
	}
}

// toUnicharLines 单次扫描完成分类，并按空白策略合并空白、拆分硬换行。
// 返回的每一行都不含换行符；保留换行的策略下，空行以空切片表示。
func toUnicharLines(text []rune, ws WhiteSpace) [][]unichar {
	keepLF := ws == WhiteSpacePre || ws == WhiteSpacePreWrap || ws == WhiteSpacePreLine
	collapse := ws != WhiteSpacePre && ws != WhiteSpacePreWrap

	var rows [][]unichar
	var row []unichar
	for i := 0; i < len(text); i++ {
		r := text[i]
		if r == '\r' {
			if i+1 < len(text) && text[i+1] == '\n' {
				continue
			}
			r = '\n'
		}
		kind := classify(r)
		if kind == kindLineFeed {
			if keepLF {
				if collapse {
					row = trimTrailingSpace(row)
				}
				rows = append(rows, row)
				row = nil
				continue
			}
			kind = kindSpace
		}
		if kind == kindSpace {
			if r == '\t' || collapse {
				r = ' '
			}
			if collapse && (len(row) == 0 && keepLF || len(row) > 0 && row[len(row)-1].kind == kindSpace) {
				// 行首（保留换行时）与连续空白只留一个
				continue
			}
		}
		row = append(row, unichar{r: r, kind: kind, index: i})
	}
	return append(rows, row)
}

func trimTrailingSpace(row []unichar) []unichar {
	for len(row) > 0 && row[len(row)-1].kind == kindSpace {
		row = row[:len(row)-1]
	}
	return row
}

// token 是 [start, end) 的一个断行单元，[word, end) 是其尾部空格。
type token struct {
	start, word, end int
}

// tokenize 按断词策略切分一行。
// Normal/BreakWord 在空格处以及每个表意字符前后断开；KeepAll 只在空格和标点之后断开。
func tokenize(row []unichar, wb WordBreak) []token {
	var out []token
	n := len(row)
	start := 0
	for start < n {
		i := start
		for i < n && row[i].kind != kindSpace {
			if i > start && breakBefore(row, i, wb) {
				break
			}
			i++
			if wb == WordBreakKeepAll && row[i-1].kind == kindPunctuation {
				break
			}
		}
		word := i
		for i < n && row[i].kind == kindSpace {
			i++
		}
		out = append(out, token{start: start, word: word, end: i})
		start = i
	}
	return out
}

func breakBefore(row []unichar, i int, wb WordBreak) bool {
	if wb == WordBreakKeepAll {
		return false
	}
	if row[i].kind == kindOther {
		return true
	}
	// 标点跟随前面的表意字符，不单独起行
	return row[i-1].kind == kindOther && row[i].kind != kindPunctuation
}

// softBreak 表示 BreakWord 截断超长单词时可以在 i 之前断开：
// 小写转大写、字母与数字交替、标点之后。
func softBreak(row []unichar, i int) bool {
	a, b := row[i-1].kind, row[i].kind
	switch {
	case a == kindPunctuation:
		return b != kindPunctuation
	case a == kindLowerLetter && b == kindUpperLetter:
		return true
	case a == kindDigit:
		return b == kindUpperLetter || b == kindLowerLetter
	case b == kindDigit:
		return a == kindUpperLetter || a == kindLowerLetter
	}
	return false
}
