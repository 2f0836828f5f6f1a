package autoload

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/mozart/pkg/symbols"
)

// ClassMap lists files and directories whose global classes are
// autoloaded by name (classmap, files).
type ClassMap struct {
	Paths    []string
	standard string
}

// NewClassMap returns a classmap mapping.
func NewClassMap(paths []string) *ClassMap {
	return &ClassMap{Paths: paths, standard: StandardClassmap}
}

// NewFiles returns a mapping for explicitly included files. They are
// relocated and renamed like classmap entries.
func NewFiles(paths []string) *ClassMap {
	return &ClassMap{Paths: paths, standard: StandardFiles}
}

func (c *ClassMap) Standard() string { return c.standard }

func (c *ClassMap) Sources() []string { return c.Paths }

func (c *ClassMap) Destination(d Destinations) string { return d.ClassmapDirectory }

func (c *ClassMap) AppliesTo(relPath string) bool {
	for _, p := range c.Paths {
		if covers(p, relPath) {
			return true
		}
	}
	return false
}

// Declared returns the global classes of content.
func (c *ClassMap) Declared(content string) []string {
	return symbols.GlobalClasses(content)
}

func (c *ClassMap) Rename(symbol string, p Prefixes) (string, bool) {
	if p.Classmap == "" || symbol == "" || strings.Contains(symbol, `\`) {
		return "", false
	}
	prefix := p.Classmap
	if !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	if strings.HasPrefix(symbol, prefix) {
		return "", false
	}
	return prefix + symbol, true
}

func (c *ClassMap) Compile(renames []symbols.Rename, _ Prefixes) (*symbols.Rule, error) {
	return symbols.NewClassRule(renames)
}

func (c *ClassMap) Rewrite(content string, rule *symbols.Rule) string {
	return rewrite(content, rule, c.standard)
}

func (c *ClassMap) String() string {
	return fmt.Sprintf("%s %s", c.standard, strings.Join(c.Paths, ", "))
}
