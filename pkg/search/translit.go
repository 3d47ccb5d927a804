package search

import (
	"strings"
	"unicode"
)

// The two transliteration tables mirror each other: Cyrillic letters
// map to Latin with digraphs for ж, х, ц, ч, ш, щ, ю, я, ё; the inverse
// direction applies digraphs before single letters so that e.g. "sh"
// becomes "ш" and never "с"+"х".

var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
}

// latinDigraphs is ordered longest-first; order matters for correctness.
var latinDigraphs = []struct {
	latin    string
	cyrillic string
}{
	{"sch", "щ"},
	{"yo", "ё"},
	{"zh", "ж"},
	{"kh", "х"},
	{"ts", "ц"},
	{"ch", "ч"},
	{"sh", "ш"},
	{"yu", "ю"},
	{"ya", "я"},
	{"ye", "е"},
	{"yi", "й"},
}

var latinToCyrillic = map[rune]string{
	'a': "а", 'b': "б", 'c': "к", 'd': "д", 'e': "е",
	'f': "ф", 'g': "г", 'h': "х", 'i': "и", 'j': "й",
	'k': "к", 'l': "л", 'm': "м", 'n': "н", 'o': "о",
	'p': "п", 'q': "к", 'r': "р", 's': "с", 't': "т",
	'u': "у", 'v': "в", 'w': "в", 'x': "кс", 'y': "ы",
	'z': "з",
}

// CyrillicToLatin transliterates every Cyrillic letter in s into the
// Latin scheme, leaving other characters untouched.
func CyrillicToLatin(s string) string {
	var b strings.Builder
	for _, r := range s {
		lower := unicode.ToLower(r)
		mapped, ok := cyrillicToLatin[lower]
		if !ok {
			b.WriteRune(r)
			continue
		}
		if r != lower && mapped != "" {
			mapped = strings.ToUpper(mapped[:1]) + mapped[1:]
		}
		b.WriteString(mapped)
	}
	return b.String()
}

// LatinToCyrillic transliterates s into Cyrillic, resolving digraphs
// before single letters. Capitalized digraphs ("Sh", "SH") map to the
// capital Cyrillic letter.
func LatinToCyrillic(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); {
		if mapped, width := matchDigraph(runes[i:]); width > 0 {
			b.WriteString(mapped)
			i += width
			continue
		}
		r := runes[i]
		lower := unicode.ToLower(r)
		mapped, ok := latinToCyrillic[lower]
		if !ok {
			b.WriteRune(r)
			i++
			continue
		}
		if r != lower {
			mapped = strings.ToUpper(mapped)
		}
		b.WriteString(mapped)
		i++
	}
	return b.String()
}

// StripSigns removes soft and hard signs, which are routinely omitted
// in casual typing.
func StripSigns(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'ь', 'ъ', 'Ь', 'Ъ':
			return -1
		}
		return r
	}, s)
}

func hasCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

func hasLatin(s string) bool {
	for _, r := range s {
		if r <= unicode.MaxASCII && unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func matchDigraph(runes []rune) (string, int) {
	for _, d := range latinDigraphs {
		dg := []rune(d.latin)
		if len(runes) < len(dg) {
			continue
		}
		match := true
		for i, r := range dg {
			if unicode.ToLower(runes[i]) != r {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if unicode.IsUpper(runes[0]) {
			return strings.ToUpper(d.cyrillic), len(dg)
		}
		return d.cyrillic, len(dg)
	}
	return "", 0
}
