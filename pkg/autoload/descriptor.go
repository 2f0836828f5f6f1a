// Package autoload models the autoload mappings of a composer package.
//
// Every mapping kind implements Descriptor, so relocation and rewriting
// never switch on the concrete type. Adding a kind means adding a type
// that satisfies the interface.
package autoload

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/mozart/pkg/logging"
	"github.com/arthur-debert/mozart/pkg/manifest"
	"github.com/arthur-debert/mozart/pkg/symbols"
)

// Autoload standards as spelled in composer.json
const (
	StandardPSR4     = "psr-4"
	StandardPSR0     = "psr-0"
	StandardClassmap = "classmap"
	StandardFiles    = "files"
)

// Destinations are the absolute output directories of a run.
type Destinations struct {
	DepDirectory      string
	ClassmapDirectory string
}

// Prefixes are the host prefixes renamed symbols receive.
type Prefixes struct {
	Namespace string
	Classmap  string
}

// Descriptor is one autoload mapping of a package.
type Descriptor interface {
	// Standard is the composer autoload key the mapping came from.
	Standard() string
	// Sources are the mapped paths, relative to the package directory.
	Sources() []string
	// Destination picks the output directory for relocated files.
	Destination(d Destinations) string
	// AppliesTo reports whether a file, relative to the package
	// directory, is covered by the mapping.
	AppliesTo(relPath string) bool
	// Declared lists the symbols the mapping owns in content.
	Declared(content string) []string
	// Rename returns the host-prefixed symbol. ok is false when the symbol
	// cannot or must not be renamed.
	Rename(symbol string, p Prefixes) (renamed string, ok bool)
	// Compile builds the rule applying renames.
	Compile(renames []symbols.Rename, p Prefixes) (*symbols.Rule, error)
	// Rewrite applies rule to content.
	Rewrite(content string, rule *symbols.Rule) string
}

// FromManifest builds descriptors from an autoload section. Order is
// psr-4, psr-0, classmap, files, with prefixes sorted.
func FromManifest(section manifest.Autoload) []Descriptor {
	var out []Descriptor

	for _, prefix := range sortedKeys(section.PSR4) {
		for _, dir := range section.PSR4[prefix] {
			out = append(out, NewPSR4(prefix, dir))
		}
	}
	for _, prefix := range sortedKeys(section.PSR0) {
		for _, dir := range section.PSR0[prefix] {
			out = append(out, NewPSR0(prefix, dir))
		}
	}
	if len(section.Classmap) > 0 {
		out = append(out, NewClassMap(section.Classmap))
	}
	if len(section.Files) > 0 {
		out = append(out, NewFiles(section.Files))
	}

	return out
}

// TargetDir is where desc relocates the files of the package installed as
// dirName, or "" when desc has no configured destination.
func TargetDir(desc Descriptor, d Destinations, dirName string) string {
	dest := desc.Destination(d)
	if dest == "" {
		return ""
	}
	return filepath.Join(dest, filepath.FromSlash(dirName))
}

// HasStandard reports whether any descriptor uses one of standards.
func HasStandard(descriptors []Descriptor, standards ...string) bool {
	for _, d := range descriptors {
		for _, s := range standards {
			if d.Standard() == s {
				return true
			}
		}
	}
	return false
}

func rewrite(content string, rule *symbols.Rule, standard string) string {
	out, err := rule.Apply(content)
	if err != nil {
		logger := logging.GetLogger("autoload")
		logger.Warn().Err(err).Str("standard", standard).Msg("Rule failed, content left unchanged")
		return content
	}
	return out
}

// covers reports whether rel lies at or below source. Both are relative
// to the package directory.
func covers(source, rel string) bool {
	source = cleanRel(source)
	rel = cleanRel(rel)
	if source == "." {
		return true
	}
	return rel == source || strings.HasPrefix(rel, source+"/")
}

func cleanRel(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}

func sortedKeys(m map[string]manifest.Paths) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
