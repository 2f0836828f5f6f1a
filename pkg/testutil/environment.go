// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Orchestrate host project environments for tests

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/mozart/pkg/config"
	"github.com/arthur-debert/mozart/pkg/filesystem"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment is a host project: a working directory with a vendor
// directory below it.
type TestEnvironment struct {
	Root    string
	FS      afero.Fs
	Handler *filesystem.Handler
	Type    EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	switch envType {
	case EnvIsolated:
		root, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)
		env.Root = filepath.Join(root, "project")
		env.FS = filesystem.NewOS()
	default:
		env.Root = "/virtual/project"
		env.FS = filesystem.NewMemory()
	}

	require.NoError(t, env.FS.MkdirAll(filepath.Join(env.Root, "vendor"), 0755))
	env.Handler = filesystem.NewHandler(env.FS, env.Root)
	return env
}

// Path joins rel to the project root
func (env *TestEnvironment) Path(rel string) string {
	return filepath.Join(env.Root, filepath.FromSlash(rel))
}

// WriteFile writes a file relative to the project root
func (env *TestEnvironment) WriteFile(rel, content string) {
	env.t.Helper()
	path := env.Path(rel)
	require.NoError(env.t, env.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(env.t, afero.WriteFile(env.FS, path, []byte(content), 0644))
}

// ReadFile reads a file relative to the project root
func (env *TestEnvironment) ReadFile(rel string) string {
	env.t.Helper()
	data, err := afero.ReadFile(env.FS, env.Path(rel))
	require.NoError(env.t, err)
	return string(data)
}

// Exists reports whether rel exists below the project root
func (env *TestEnvironment) Exists(rel string) bool {
	ok, err := afero.Exists(env.FS, env.Path(rel))
	return err == nil && ok
}

// WithFileTree writes every path -> content pair
func (env *TestEnvironment) WithFileTree(tree map[string]string) {
	env.t.Helper()
	for rel, content := range tree {
		env.WriteFile(rel, content)
	}
}

// Snapshot returns the content of every file below rel, keyed by path
// relative to the project root.
func (env *TestEnvironment) Snapshot(rel string) map[string]string {
	env.t.Helper()
	out := map[string]string{}
	base := env.Path(rel)
	if ok, _ := afero.DirExists(env.FS, base); !ok {
		return out
	}
	err := afero.Walk(env.FS, base, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.Mode().IsRegular() {
			return err
		}
		data, err := afero.ReadFile(env.FS, path)
		if err != nil {
			return err
		}
		key, err := filepath.Rel(env.Root, path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(key)] = string(data)
		return nil
	})
	require.NoError(env.t, err)
	return out
}

// HostConfig returns a valid configuration for the environment. Mutators
// run in order.
func (env *TestEnvironment) HostConfig(mutators ...func(*config.Config)) *config.Config {
	cfg := &config.Config{
		DepNamespace:            `Host\Deps\`,
		DepDirectory:            "src/Deps",
		ClassmapDirectory:       "classes/deps",
		ClassmapPrefix:          "Host_",
		DeleteVendorDirectories: true,
		WorkingDir:              env.Root,
	}
	for _, m := range mutators {
		m(cfg)
	}
	return cfg
}
