package guess

import (
	"strings"
	"unicode"

	"github.com/melodix-games/melodix/internal/catalog"
)

// Oracle matches free-text guesses against song titles. Matching is
// case-insensitive, punctuation-blind and tolerant of parenthesized title
// decorations ("Song (feat. X)" accepts "song").
type Oracle struct{}

func New() *Oracle {
	return &Oracle{}
}

func (o *Oracle) Match(input string, song catalog.Song) (bool, float64) {
	in := Normalize(input)
	if in == "" {
		return false, 0
	}

	for _, alias := range titleAliases(song.Name) {
		if in == alias {
			return true, 1
		}
	}

	return false, 0
}

// Normalize lowercases, strips everything but letters, digits and spaces,
// and collapses runs of whitespace.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		case unicode.IsSpace(r) && !space:
			b.WriteRune(' ')
			space = true
		}
	}

	return strings.TrimSpace(b.String())
}

// titleAliases returns the normalized accepted spellings of a title: the
// full title, and the title with bracketed segments dropped.
func titleAliases(name string) []string {
	aliases := make([]string, 0, 2)
	if full := Normalize(name); full != "" {
		aliases = append(aliases, full)
	}

	if stripped := Normalize(stripBrackets(name)); stripped != "" && (len(aliases) == 0 || stripped != aliases[0]) {
		aliases = append(aliases, stripped)
	}

	return aliases
}

func stripBrackets(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	depth := 0
	for _, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}

	return b.String()
}
