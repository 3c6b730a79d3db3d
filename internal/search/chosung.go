package search

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	hangulFirst      = 0xAC00
	hangulLast       = 0xD7A3
	syllablesPerLead = 588
)

var leadConsonants = []rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ', 'ㅅ',
	'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

// Chosung replaces every precomposed Hangul syllable with its leading
// consonant. Other runes are kept. Input is NFC-normalised first so that
// decomposed jamo sequences are treated as syllables.
func Chosung(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r >= hangulFirst && r <= hangulLast {
			sb.WriteRune(leadConsonants[(r-hangulFirst)/syllablesPerLead])
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Matches reports whether query is a case-insensitive substring of text, or
// whether the chosung form of query is contained in the chosung form of text.
func Matches(text, query string) bool {
	if query == "" {
		return false
	}
	if strings.Contains(strings.ToLower(text), strings.ToLower(query)) {
		return true
	}
	return strings.Contains(Chosung(text), Chosung(query))
}
