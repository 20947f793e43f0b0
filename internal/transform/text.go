package transform

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	xtransform "golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents 去掉字符上的重音符号，如"Ação"变为"Acao"
func StripAccents(s string) string {
	t := xtransform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := xtransform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

var nameReplacer = strings.NewReplacer("%", "pct", "-", "", "/", "")

// NormalizeName 把列名规范为小写、无重音、以下划线连接的形式
func NormalizeName(s string) string {
	s = nameReplacer.Replace(strings.TrimSpace(strings.ToLower(s)))
	return strings.Join(strings.Fields(StripAccents(s)), "_")
}

// NormalizeText 与NormalizeName相同，另外去掉句点
func NormalizeText(s string) string {
	return NormalizeName(strings.ReplaceAll(s, ".", ""))
}
