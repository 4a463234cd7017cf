package registry

import (
	"path"
	"strings"

	"github.com/apifold/tsgen/internal/domain"
)

// SchemaContainerPrefix is the only fragment shape a reference may use.
const SchemaContainerPrefix = "/components/schemas/"

// parsedRef is the decomposed form of a reference string.
type parsedRef struct {
	// File the reference points into. Never empty: an empty file part in
	// the source reference resolves to the current file.
	File string

	// Name of the referenced schema.
	Name string
}

// Key returns the canonical registry key for the reference.
func (r parsedRef) Key() string {
	return r.File + "#" + SchemaContainerPrefix + r.Name
}

// parseRef decomposes a reference of the form
// "<file-or-empty>#/components/schemas/<Name>". Any other shape is fatal.
func parseRef(ref, currentFile string) (parsedRef, error) {
	hash := strings.Index(ref, "#")
	if hash < 0 {
		return parsedRef{}, domain.NewError(domain.ErrInvalidRefLink, ref)
	}

	file := ref[:hash]
	fragment := ref[hash+1:]

	if !strings.HasPrefix(fragment, SchemaContainerPrefix) {
		return parsedRef{}, domain.NewError(domain.ErrInvalidRefLink, ref)
	}

	name := fragment[len(SchemaContainerPrefix):]
	if name == "" || strings.Contains(name, "/") {
		return parsedRef{}, domain.NewError(domain.ErrInvalidRefLink, ref)
	}

	if file == "" {
		file = currentFile
	}

	return parsedRef{File: path.Clean(file), Name: name}, nil
}

// DeclKey builds the canonical registry key for a schema declared at the
// top level of a file.
func DeclKey(file, name string) string {
	return path.Clean(file) + "#" + SchemaContainerPrefix + name
}

// CanonicalRefKey resolves a raw reference string, read in the context of
// currentFile, to its canonical registry key. Discriminator mappings are
// canonicalized through this at conversion time so emission can pair
// mapping entries with union members by key equality.
func CanonicalRefKey(ref, currentFile string) (string, error) {
	parsed, err := parseRef(ref, currentFile)
	if err != nil {
		return "", err
	}
	return parsed.Key(), nil
}
