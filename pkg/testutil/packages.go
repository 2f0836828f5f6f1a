package testutil

import (
	"encoding/json"
	"path"

	"github.com/stretchr/testify/require"
)

// PackageConfig describes an installed vendor package
type PackageConfig struct {
	Name     string            // defaults to the slug
	Require  []string          // dependency slugs
	Autoload map[string]any    // the composer autoload section
	Files    map[string]string // path relative to the package -> content
}

// SetupPackage installs a package at vendor/<slug> and returns its
// manifest path
func (env *TestEnvironment) SetupPackage(slug string, cfg PackageConfig) string {
	env.t.Helper()

	name := cfg.Name
	if name == "" {
		name = slug
	}
	reqs := map[string]string{}
	for _, dep := range cfg.Require {
		reqs[dep] = "*"
	}
	doc := map[string]any{"name": name, "require": reqs}
	if cfg.Autoload != nil {
		doc["autoload"] = cfg.Autoload
	}

	dir := path.Join("vendor", slug)
	env.WriteFile(path.Join(dir, "composer.json"), mustJSON(env, doc))
	for rel, content := range cfg.Files {
		env.WriteFile(path.Join(dir, rel), content)
	}
	return env.Path(path.Join(dir, "composer.json"))
}

// SetupRoot writes the host composer.json with the given extra.mozart
// section and root requirements
func (env *TestEnvironment) SetupRoot(mozart map[string]any, requires ...string) {
	env.t.Helper()

	reqs := map[string]string{}
	for _, dep := range requires {
		reqs[dep] = "*"
	}
	doc := map[string]any{
		"name":    "host/project",
		"require": reqs,
	}
	if mozart != nil {
		doc["extra"] = map[string]any{"mozart": mozart}
	}
	env.WriteFile("composer.json", mustJSON(env, doc))
}

// PSR4 is shorthand for a psr-4 autoload section
func PSR4(prefix, dir string) map[string]any {
	return map[string]any{"psr-4": map[string]any{prefix: dir}}
}

// Classmap is shorthand for a classmap autoload section
func Classmap(paths ...string) map[string]any {
	return map[string]any{"classmap": paths}
}

func mustJSON(env *TestEnvironment, v any) string {
	data, err := json.MarshalIndent(v, "", "    ")
	require.NoError(env.t, err)
	return string(data)
}
