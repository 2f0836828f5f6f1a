// Package manifest reads composer.json documents.
package manifest

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/arthur-debert/mozart/pkg/errors"
	"github.com/arthur-debert/mozart/pkg/filesystem"
)

// FileName is the manifest file looked up in every package directory.
const FileName = "composer.json"

// Document is the subset of a composer.json document mozart consumes.
type Document struct {
	Name     string            `json:"name"`
	Require  map[string]string `json:"require,omitempty"`
	Autoload Autoload          `json:"autoload"`
	Extra    Extra             `json:"extra"`
}

// Extra holds the "extra" section. Only the mozart key is kept.
type Extra struct {
	Mozart json.RawMessage `json:"mozart,omitempty"`
}

// Autoload is the "autoload" section of a manifest.
type Autoload struct {
	PSR4     map[string]Paths `json:"psr-4,omitempty" toml:"psr-4,omitempty" yaml:"psr-4,omitempty"`
	PSR0     map[string]Paths `json:"psr-0,omitempty" toml:"psr-0,omitempty" yaml:"psr-0,omitempty"`
	Classmap []string         `json:"classmap,omitempty" toml:"classmap,omitempty" yaml:"classmap,omitempty"`
	Files    []string         `json:"files,omitempty" toml:"files,omitempty" yaml:"files,omitempty"`
}

// Paths is a directory list that composer allows to be written as a single
// string.
type Paths []string

// UnmarshalJSON accepts both "dir" and ["dir", ...].
func (p *Paths) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*p = Paths{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*p = many
	return nil
}

// UnmarshalJSON tolerates the empty list PHP serializers emit for empty
// objects.
func (a *Autoload) UnmarshalJSON(data []byte) error {
	if isEmptyList(data) {
		*a = Autoload{}
		return nil
	}
	type plain Autoload
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*a = Autoload(out)
	return nil
}

// UnmarshalJSON tolerates "extra": [].
func (e *Extra) UnmarshalJSON(data []byte) error {
	if isEmptyList(data) {
		*e = Extra{}
		return nil
	}
	type plain Extra
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*e = Extra(out)
	return nil
}

// IsEmpty reports whether the section declares no mapping at all.
func (a Autoload) IsEmpty() bool {
	return len(a.PSR4) == 0 && len(a.PSR0) == 0 && len(a.Classmap) == 0 && len(a.Files) == 0
}

// Requires returns the declared dependency slugs in sorted order.
func (d *Document) Requires() []string {
	slugs := make([]string, 0, len(d.Require))
	for slug := range d.Require {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// MozartConfig returns the raw extra.mozart section, or nil when it is absent
// or null.
func (d *Document) MozartConfig() json.RawMessage {
	raw := bytes.TrimSpace(d.Extra.Mozart)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	return raw
}

// Read loads and parses the manifest at path.
func Read(h *filesystem.Handler, path string) (*Document, error) {
	content, err := h.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfiguration, "could not read manifest").
			WithDetail("path", path)
	}
	return Parse([]byte(content), path)
}

// Parse decodes a manifest document. path is only used in error details.
func Parse(data []byte, path string) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrParse, "could not parse manifest").
			WithDetail("path", path)
	}
	return &doc, nil
}

func isEmptyList(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) < 2 || trimmed[0] != '[' {
		return false
	}
	return len(bytes.TrimSpace(trimmed[1:len(trimmed)-1])) == 0
}
