// Package questions implements the interactive question picker: the user's
// question catalog, the history of asked questions and the menu that chooses
// between them.
package questions

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Question is one section of the catalog file.
type Question struct {
	Name string
	Text string
	// Model is an optional model name hint, empty when the section has none.
	Model string
}

// Catalog is the ordered list of catalog questions. Menu numbers start at 1.
type Catalog []Question

// MissingQuestionError is returned for a catalog section without a question key.
type MissingQuestionError struct {
	Path    string
	Section string
}

func (e *MissingQuestionError) Error() string {
	return fmt.Sprintf("%s: section [%s] has no question", e.Path, e.Section)
}

// LoadCatalog reads the catalog from an INI file, keeping the section order.
// A missing file is an empty catalog.
func LoadCatalog(path string) (Catalog, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		Loose:                      true,
		InsensitiveKeys:            true,
		IgnoreInlineComment:        true,
		AllowPythonMultilineValues: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("reading question catalog: %w", err)
	}

	var c Catalog
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		if !sec.HasKey("question") {
			return nil, &MissingQuestionError{Path: path, Section: sec.Name()}
		}
		c = append(c, Question{
			Name:  sec.Name(),
			Text:  sec.Key("question").String(),
			Model: sec.Key("model").String(),
		})
	}
	return c, nil
}

// Choice returns the question numbered n, counting from 1.
func (c Catalog) Choice(n int) (Question, bool) {
	if n < 1 || n > len(c) {
		return Question{}, false
	}
	return c[n-1], true
}
