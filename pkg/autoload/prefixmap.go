package autoload

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/mozart/pkg/symbols"
)

// PrefixMap maps a namespace prefix to a source directory (psr-4, psr-0).
type PrefixMap struct {
	Prefix    string
	SourceDir string
	standard  string
}

// NewPSR4 returns a psr-4 mapping.
func NewPSR4(prefix, sourceDir string) *PrefixMap {
	return &PrefixMap{Prefix: prefix, SourceDir: sourceDir, standard: StandardPSR4}
}

// NewPSR0 returns a psr-0 mapping.
func NewPSR0(prefix, sourceDir string) *PrefixMap {
	return &PrefixMap{Prefix: prefix, SourceDir: sourceDir, standard: StandardPSR0}
}

func (m *PrefixMap) Standard() string { return m.standard }

func (m *PrefixMap) Sources() []string { return []string{m.SourceDir} }

func (m *PrefixMap) Destination(d Destinations) string { return d.DepDirectory }

func (m *PrefixMap) AppliesTo(relPath string) bool { return covers(m.SourceDir, relPath) }

// Declared returns the mapped namespace. The prefix is owned by the
// mapping whatever the file contains.
func (m *PrefixMap) Declared(string) []string {
	ns := m.Namespace()
	if ns == "" {
		return nil
	}
	return []string{ns}
}

func (m *PrefixMap) Rename(symbol string, p Prefixes) (string, bool) {
	host := strings.Trim(p.Namespace, `\`)
	symbol = strings.Trim(symbol, `\`)
	if host == "" || symbol == "" {
		return "", false
	}
	if symbol == host || strings.HasPrefix(symbol, host+`\`) {
		return "", false
	}
	return host + `\` + symbol, true
}

func (m *PrefixMap) Compile(renames []symbols.Rename, p Prefixes) (*symbols.Rule, error) {
	return symbols.NewNamespaceRule(p.Namespace, renames)
}

func (m *PrefixMap) Rewrite(content string, rule *symbols.Rule) string {
	return rewrite(content, rule, m.standard)
}

// Namespace is the prefix without surrounding separators.
func (m *PrefixMap) Namespace() string {
	return strings.Trim(m.Prefix, `\`)
}

func (m *PrefixMap) String() string {
	return fmt.Sprintf("%s %s => %s", m.standard, m.Prefix, m.SourceDir)
}
