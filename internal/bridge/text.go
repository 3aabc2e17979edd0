package bridge

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxText 单个字符串字段在 255 字节帧体内的上限（mode + 命令号 + 终止符）
const maxText = 0xFF - 1 - 2 - 1

// ToASCII 去掉变音符号后把剩余非 ASCII 字符替换为 '?'，并去掉 NUL
func ToASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var sb strings.Builder
	sb.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == 0:
		case r < 0x80:
			sb.WriteRune(r)
		default:
			sb.WriteByte('?')
		}
	}
	return sb.String()
}

// fitText 折叠为 ASCII 并截断到 n 字节
func fitText(s string, n int) string {
	out := ToASCII(s)
	if len(out) > n {
		out = out[:n]
	}
	return out
}
