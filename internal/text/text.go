package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}\p{Mn}_]+`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

// Token is a word occurrence.
type Token struct {
	// Text is the word as it appears in the scanned text.
	Text string
	// Offset is the character (rune) offset of the first rune of the word.
	Offset int
}

// Words returns every word occurrence in s, in order.
func Words(s string) []Token {
	locs := wordPattern.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return nil
	}

	tokens := make([]Token, 0, len(locs))
	runeOff, byteOff := 0, 0
	for _, loc := range locs {
		runeOff += utf8.RuneCountInString(s[byteOff:loc[0]])
		byteOff = loc[0]
		tokens = append(tokens, Token{Text: s[loc[0]:loc[1]], Offset: runeOff})
	}
	return tokens
}

// FirstWord returns the first word of s, or "" if s has none.
func FirstWord(s string) string {
	return wordPattern.FindString(s)
}

// Sentences splits s on sentence terminators and returns the trimmed,
// non-empty pieces.
func Sentences(s string) []string {
	parts := sentencePattern.Split(s, -1)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Normalize lower-cases and trims s. It is the key function of the phrase index.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Len returns the length of s in characters.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// IsWordRune reports whether r belongs to a word.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r)
}

// Truncate returns the first n characters of s and whether s was cut.
func Truncate(s string, n int) (string, bool) {
	if n < 0 {
		n = 0
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], true
		}
		i++
	}
	return s, false
}
