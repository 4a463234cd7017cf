package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// NormalizeName strips punctuation that is unsafe in generated identifiers
// from an externally supplied name. Letters, digits and underscores pass
// through unchanged, so normalizing an already-normalized name is a no-op.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToPascal converts a name to PascalCase, splitting on the separators that
// commonly appear in schema and field names. Interior capitals of mixed-case
// segments are preserved ("userID" stays "UserID", "in-progress" becomes
// "InProgress").
func ToPascal(name string) string {
	segments := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' ' || r == '/'
	})

	var b strings.Builder
	for _, seg := range segments {
		seg = NormalizeName(seg)
		if seg == "" {
			continue
		}
		if seg == strings.ToLower(seg) {
			b.WriteString(titleCaser.String(seg))
			continue
		}
		b.WriteString(upperFirst(seg))
	}
	return b.String()
}

// ToLowerCamel converts a name to lowerCamelCase.
func ToLowerCamel(name string) string {
	pascal := ToPascal(name)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// EnumMemberName derives a declaration-safe member name from an enum literal.
// Literals that normalize to nothing, or that start with a digit, receive a
// "V" prefix so the result is a legal identifier.
func EnumMemberName(value string) string {
	name := ToPascal(value)
	if name == "" {
		return "V"
	}
	if unicode.IsDigit([]rune(name)[0]) {
		return "V" + name
	}
	return name
}

func upperFirst(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
