package record

import (
	"strings"
	"unicode"
)

// Naming maps Go field names to document field names when no tag is set.
type Naming uint8

const (
	NamingAsIs  Naming = iota // Name
	NamingKebab               // name-part
	NamingSnake               // name_part
	NamingCamel               // namePart
)

var namingNames = [...]string{
	NamingAsIs:  "as-is",
	NamingKebab: "kebab",
	NamingSnake: "snake",
	NamingCamel: "camel",
}

func (n Naming) String() string {
	if int(n) < len(namingNames) {
		return namingNames[n]
	}
	return "unknown"
}

// ParseNaming returns the Naming with the given String form.
func ParseNaming(s string) (Naming, bool) {
	for i, name := range namingNames {
		if name == s {
			return Naming(i), true
		}
	}
	return NamingAsIs, false
}

// Apply renders a Go identifier under n.
func (n Naming) Apply(goName string) string {
	switch n {
	case NamingKebab:
		return strings.Join(lowerWords(goName), "-")
	case NamingSnake:
		return strings.Join(lowerWords(goName), "_")
	case NamingCamel:
		words := lowerWords(goName)
		for i := 1; i < len(words); i++ {
			words[i] = upperFirst(words[i])
		}
		return strings.Join(words, "")
	default:
		return goName
	}
}

// splitWords splits a Go identifier at case changes, keeping acronyms
// together: "HTTPServerID" -> HTTP, Server, ID.
func splitWords(s string) []string {
	runes := []rune(s)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		switch {
		case cur == '_':
			if start < i {
				words = append(words, string(runes[start:i]))
			}
			start = i + 1
		case unicode.IsLower(prev) && unicode.IsUpper(cur),
			unicode.IsDigit(prev) && unicode.IsUpper(cur):
			words = append(words, string(runes[start:i]))
			start = i
		case unicode.IsUpper(prev) && unicode.IsUpper(cur) &&
			i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			if start < i {
				words = append(words, string(runes[start:i]))
			}
			start = i
		}
	}
	if start < len(runes) {
		words = append(words, string(runes[start:]))
	}
	return words
}

func lowerWords(s string) []string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return words
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
