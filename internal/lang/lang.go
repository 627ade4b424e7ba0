// Package lang maps human-readable target language names to ISO-639-1 codes
// for the languages the evaluator supports.
package lang

import (
	"fmt"
	"sort"
	"strings"
)

// Language is a supported target language.
type Language struct {
	Name string
	Code string
}

var supported = []Language{
	{Name: "Spanish", Code: "es"},
	{Name: "French", Code: "fr"},
	{Name: "German", Code: "de"},
	{Name: "Japanese", Code: "ja"},
	{Name: "Arabic", Code: "ar"},
	{Name: "Hindi", Code: "hi"},
	{Name: "Portuguese", Code: "pt"},
}

// Parse resolves a language name or ISO-639-1 code (case-insensitive) to a
// supported Language.
func Parse(s string) (Language, error) {
	key := strings.TrimSpace(s)
	for _, l := range supported {
		if strings.EqualFold(key, l.Name) || strings.EqualFold(key, l.Code) {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("unsupported target language: %q", s)
}

// Names returns the supported language names in alphabetical order.
func Names() []string {
	names := make([]string, len(supported))
	for i, l := range supported {
		names[i] = l.Name
	}
	sort.Strings(names)
	return names
}
