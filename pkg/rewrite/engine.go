// Package rewrite renames the symbols of relocated packages and fixes the
// references other code holds to them.
//
// ReplacePackages rewrites each package inside its own relocated tree and
// records the rule it applied. ReplaceParentInTree and
// ReplaceParentClassesInDirectory then replay the recorded rules on every
// relocated package and on the classmap output directory.
package rewrite

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/mozart/pkg/autoload"
	"github.com/arthur-debert/mozart/pkg/config"
	"github.com/arthur-debert/mozart/pkg/filesystem"
	"github.com/arthur-debert/mozart/pkg/logging"
	"github.com/arthur-debert/mozart/pkg/symbols"
	"github.com/arthur-debert/mozart/pkg/types"
)

// Stats counts the files the engine touched.
type Stats struct {
	FilesScanned   int `json:"files_scanned" yaml:"files_scanned"`
	FilesRewritten int `json:"files_rewritten" yaml:"files_rewritten"`
	FilesSkipped   int `json:"files_skipped" yaml:"files_skipped"`
}

// AppliedRename is a rename the engine recorded for a package.
type AppliedRename struct {
	Package  string `json:"package" yaml:"package"`
	Standard string `json:"standard" yaml:"standard"`
	From     string `json:"from" yaml:"from"`
	To       string `json:"to" yaml:"to"`
}

type recorded struct {
	pkg  *types.Package
	desc autoload.Descriptor
	rule *symbols.Rule
}

// Engine rewrites the relocated files of one run.
type Engine struct {
	fs       *filesystem.Handler
	cfg      *config.Config
	dests    autoload.Destinations
	prefixes autoload.Prefixes
	rules    []recorded
	stats    Stats
	logger   zerolog.Logger
}

// New creates an engine for cfg.
func New(fs *filesystem.Handler, cfg *config.Config) *Engine {
	return &Engine{
		fs:  fs,
		cfg: cfg,
		dests: autoload.Destinations{
			DepDirectory:      cfg.DepPath(),
			ClassmapDirectory: cfg.ClassmapPath(),
		},
		prefixes: autoload.Prefixes{
			Namespace: cfg.DepNamespace,
			Classmap:  cfg.ClassmapPrefix,
		},
		logger: logging.GetLogger("rewrite"),
	}
}

// Stats returns the counters accumulated so far.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Renames lists every recorded rename in recording order.
func (e *Engine) Renames() []AppliedRename {
	var out []AppliedRename
	for _, r := range e.rules {
		for _, rn := range r.rule.Renames() {
			out = append(out, AppliedRename{
				Package:  r.pkg.Name,
				Standard: r.desc.Standard(),
				From:     rn.From,
				To:       rn.To,
			})
		}
	}
	return out
}

// ReplacePackages rewrites every package in its relocated trees.
func (e *Engine) ReplacePackages(packages []*types.Package) error {
	for _, pkg := range packages {
		if err := e.ReplacePackage(pkg); err != nil {
			return err
		}
	}
	return nil
}

// ReplacePackage renames the symbols each autoloader of pkg owns, in the
// files that autoloader relocated. Excluded packages are skipped before
// any file is opened.
func (e *Engine) ReplacePackage(pkg *types.Package) error {
	if e.cfg.IsExcludedPackage(pkg.Name) {
		e.logger.Debug().Str("package", pkg.Name).Msg("Skipping excluded package")
		return nil
	}
	for _, desc := range pkg.Autoloaders {
		if err := e.replaceDescriptor(pkg, desc); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) replaceDescriptor(pkg *types.Package, desc autoload.Descriptor) error {
	logger := e.logger.With().Str("package", pkg.Name).Str("standard", desc.Standard()).Logger()

	root := e.targetDir(pkg, desc)
	if root == "" {
		logger.Warn().Msg("No destination configured, autoloader skipped")
		return nil
	}

	files, err := e.fs.FilesFromPath(root)
	if err != nil {
		return err
	}

	var (
		renames  []symbols.Rename
		seen     = map[string]bool{}
		contents = map[string]string{}
		order    []string
	)
	for _, file := range files {
		rel, err := filepath.Rel(root, file)
		if err != nil || !desc.AppliesTo(filepath.ToSlash(rel)) {
			continue
		}
		content, ok := e.read(file)
		if !ok {
			continue
		}
		if e.declaresExcludedClass(content) {
			logger.Debug().Str("file", file).Msg("File declares an excluded class, left untouched")
			continue
		}
		contents[file] = content
		order = append(order, file)

		for _, symbol := range desc.Declared(content) {
			if seen[symbol] || e.cfg.IsExcludedClass(symbol) {
				continue
			}
			seen[symbol] = true
			if to, ok := desc.Rename(symbol, e.prefixes); ok {
				renames = append(renames, symbols.Rename{From: symbol, To: to})
			}
		}
	}

	if len(renames) == 0 {
		logger.Debug().Msg("No symbols to rename")
		return nil
	}

	rule, err := desc.Compile(renames, e.prefixes)
	if err != nil {
		return err
	}
	if rule.Empty() {
		return nil
	}
	e.rules = append(e.rules, recorded{pkg: pkg, desc: desc, rule: rule})

	for _, file := range order {
		e.write(file, contents[file], desc.Rewrite(contents[file], rule))
	}
	logger.Info().Int("renames", len(renames)).Int("files", len(order)).Msg("Package rewritten")
	return nil
}

// ReplaceParentInTree applies every rule recorded for packages to the
// relocated PHP files of each non-excluded package, so subclasses and
// references across packages, and across the autoloaders of one package,
// follow the renames.
func (e *Engine) ReplaceParentInTree(packages []*types.Package) error {
	var rules []recorded
	for _, r := range e.rules {
		if containsPackage(packages, r.pkg) {
			rules = append(rules, r)
		}
	}
	if len(rules) == 0 {
		return nil
	}

	for _, target := range packages {
		if e.cfg.IsExcludedPackage(target.Name) {
			continue
		}
		for _, root := range e.targetDirs(target) {
			files, err := e.fs.FilesFromPath(root)
			if err != nil {
				return err
			}
			for _, file := range files {
				if !isPHP(file) {
					continue
				}
				e.applyRules(file, rules)
			}
		}
	}
	return nil
}

// ReplaceParentClassesInDirectory applies every rule recorded for symbols
// relocated into dir to the PHP files below dir.
func (e *Engine) ReplaceParentClassesInDirectory(dir string) error {
	if dir == "" {
		return nil
	}
	dir = filepath.Clean(e.fs.Path(dir))

	var local []recorded
	for _, r := range e.rules {
		if dest := r.desc.Destination(e.dests); dest != "" && filepath.Clean(dest) == dir {
			local = append(local, r)
		}
	}
	if len(local) == 0 {
		return nil
	}

	files, err := e.fs.FilesFromPath(dir)
	if err != nil {
		return err
	}
	for _, file := range files {
		if !isPHP(file) {
			continue
		}
		e.applyRules(file, local)
	}
	return nil
}

func (e *Engine) applyRules(file string, rules []recorded) {
	content, ok := e.read(file)
	if !ok || e.declaresExcludedClass(content) {
		return
	}
	updated := content
	for _, r := range rules {
		updated = r.desc.Rewrite(updated, r.rule)
	}
	e.write(file, content, updated)
}

// read returns the content of file. Empty and unreadable files are
// counted as skipped.
func (e *Engine) read(file string) (string, bool) {
	e.stats.FilesScanned++
	content, err := e.fs.ReadFile(file)
	if err != nil {
		e.stats.FilesSkipped++
		e.logger.Warn().Err(err).Str("file", file).Msg("Unreadable file skipped")
		return "", false
	}
	if content == "" {
		e.stats.FilesSkipped++
		e.logger.Debug().Str("file", file).Msg("Empty file skipped")
		return "", false
	}
	return content, true
}

func (e *Engine) write(file, before, after string) {
	if before == after {
		return
	}
	if err := e.fs.WriteFile(file, after); err != nil {
		e.stats.FilesSkipped++
		e.logger.Warn().Err(err).Str("file", file).Msg("Unwritable file skipped")
		return
	}
	e.stats.FilesRewritten++
}

func (e *Engine) declaresExcludedClass(content string) bool {
	if len(e.cfg.ExcludedClasses) == 0 {
		return false
	}
	for _, name := range symbols.Qualified(content) {
		if e.cfg.IsExcludedClass(name) {
			return true
		}
	}
	return false
}

func (e *Engine) targetDir(pkg *types.Package, desc autoload.Descriptor) string {
	return autoload.TargetDir(desc, e.dests, pkg.DirectoryName())
}

func (e *Engine) targetDirs(pkg *types.Package) []string {
	var dirs []string
	seen := map[string]bool{}
	for _, desc := range pkg.Autoloaders {
		dir := e.targetDir(pkg, desc)
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs
}

func isPHP(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".php")
}

func containsPackage(packages []*types.Package, pkg *types.Package) bool {
	for _, p := range packages {
		if p == pkg {
			return true
		}
	}
	return false
}
