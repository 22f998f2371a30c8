package identifier

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// transliterations maps locale-specific characters to their ASCII spelling.
// Applied before diacritic stripping so that "ü" becomes "ue" and not "u".
var transliterations = map[rune]string{
	'ä': "ae", 'Ä': "Ae",
	'ö': "oe", 'Ö': "Oe",
	'ü': "ue", 'Ü': "Ue",
	'ß': "ss", 'ẞ': "SS",
	'æ': "ae", 'Æ': "Ae",
	'ø': "oe", 'Ø': "Oe",
	'å': "aa", 'Å': "Aa",
	'œ': "oe", 'Œ': "Oe",
}

// Derive converts a human-readable name into an identifier.
//
// Parameters:
//   - name: Display name, e.g. "Küche" or "Living Room"
//
// Returns:
//   - string: Identifier with the first letter upper case and the rest lower
//     case. A single character is upper-cased; an empty name yields "".
func Derive(name string) string {
	s := stripDiacritics(transliterate(norm.NFC.String(name)))
	s = strings.Map(keepAlphanumeric, s)

	if s == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

// Join derives an identifier for name and prefixes it with the owner's
// identifier, e.g. Join("Kitchen", "Lamp") == "KitchenLamp".
func Join(prefix, name string) string {
	return prefix + Derive(name)
}

// keepAlphanumeric drops whitespace, underscores, punctuation and anything
// outside ASCII that survived transliteration.
func keepAlphanumeric(r rune) rune {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
		return r
	}
	return -1
}

func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := transliterations[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// stripDiacritics decomposes s, drops combining marks and recomposes it,
// so "é" becomes "e". A transform chain is stateful, so one is built per call.
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
