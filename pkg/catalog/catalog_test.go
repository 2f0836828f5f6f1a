// TEST TYPE: Unit Tests
// DEPENDENCIES: In-memory filesystem
// PURPOSE: Verify package creation, caching and directory name derivation

package catalog_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/mozart/pkg/autoload"
	"github.com/arthur-debert/mozart/pkg/catalog"
	"github.com/arthur-debert/mozart/pkg/errors"
	"github.com/arthur-debert/mozart/pkg/filesystem"
	"github.com/arthur-debert/mozart/pkg/manifest"
)

func setup(t *testing.T, files map[string]string) *filesystem.Handler {
	t.Helper()
	fs := filesystem.NewMemory()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return filesystem.NewHandler(fs, "/project")
}

func TestResolve_BuildsPackage(t *testing.T) {
	h := setup(t, map[string]string{
		"/project/vendor/pimple/pimple/composer.json": `{
			"name": "pimple/pimple",
			"require": {"psr/container": "^1.1", "php": ">=7.2.5"},
			"autoload": {"psr-0": {"Pimple": "src/"}}
		}`,
	})
	c := catalog.New(h, "/project/vendor")

	pkg, err := c.Resolve("/project/vendor/pimple/pimple/composer.json", nil)
	require.NoError(t, err)

	assert.Equal(t, "pimple/pimple", pkg.Name)
	assert.Equal(t, "pimple/pimple", pkg.DirectoryName())
	assert.Equal(t, "/project/vendor/pimple/pimple", pkg.Path)
	assert.Equal(t, []string{"php", "psr/container"}, pkg.Requires)
	require.Len(t, pkg.Autoloaders, 1)
	assert.Equal(t, autoload.StandardPSR0, pkg.Autoloaders[0].Standard())
}

func TestResolve_SameInstanceForSamePath(t *testing.T) {
	h := setup(t, map[string]string{
		"/project/vendor/a/b/composer.json": `{"name": "a/b"}`,
	})
	c := catalog.New(h, "/project/vendor")

	first, err := c.Resolve("/project/vendor/a/b/composer.json", nil)
	require.NoError(t, err)
	second, err := c.Resolve("/project/vendor/a/b/../b/composer.json", nil)
	require.NoError(t, err)
	third, err := c.Resolve("vendor/a/b/composer.json", nil)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, third)
	assert.Equal(t, 1, c.Len())
}

func TestResolve_CachedInstanceIsNotReparsed(t *testing.T) {
	h := setup(t, map[string]string{
		"/project/vendor/a/b/composer.json": `{"name": "a/b"}`,
	})
	c := catalog.New(h, "/project/vendor")

	first, err := c.Resolve("/project/vendor/a/b/composer.json", nil)
	require.NoError(t, err)

	require.NoError(t, h.WriteFile("/project/vendor/a/b/composer.json", `{"name": "changed/name"}`))
	second, err := c.Resolve("/project/vendor/a/b/composer.json", nil)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "a/b", second.Name)
}

func TestResolve_Override(t *testing.T) {
	h := setup(t, map[string]string{
		"/project/vendor/google/apiclient/composer.json": `{
			"name": "google/apiclient",
			"autoload": {"psr-4": {"Google\\": "src/"}, "files": ["src/aliases.php"]}
		}`,
	})
	c := catalog.New(h, "/project/vendor")

	override := &manifest.Autoload{Classmap: []string{"src/"}}
	pkg, err := c.Resolve("/project/vendor/google/apiclient/composer.json", override)
	require.NoError(t, err)

	require.Len(t, pkg.Autoloaders, 1)
	assert.Equal(t, autoload.StandardClassmap, pkg.Autoloaders[0].Standard())
	assert.Equal(t, []string{"src/"}, pkg.Autoloaders[0].Sources())
}

func TestResolve_DirectoryName(t *testing.T) {
	h := setup(t, map[string]string{
		"/project/vendor/vendor/package-path/composer.json": `{"name": "vendor/package-name"}`,
		"/project/composer.json":                            `{"name": "vendor/package-name"}`,
		"/elsewhere/vendor/x/y/composer.json":               `{"name": "x/renamed"}`,
	})

	t.Run("from_vendor_directory", func(t *testing.T) {
		c := catalog.New(h, "/project/vendor")
		pkg, err := c.Resolve("/project/vendor/vendor/package-path/composer.json", nil)
		require.NoError(t, err)
		assert.Equal(t, "vendor/package-name", pkg.Name)
		assert.Equal(t, "vendor/package-path", pkg.DirectoryName())
	})

	t.Run("falls_back_to_name", func(t *testing.T) {
		c := catalog.New(h, "/project/vendor")
		pkg, err := c.Resolve("/project/composer.json", nil)
		require.NoError(t, err)
		assert.Equal(t, "vendor/package-name", pkg.DirectoryName())
	})

	t.Run("without_vendor_directory", func(t *testing.T) {
		c := catalog.New(h, "")
		pkg, err := c.Resolve("/elsewhere/vendor/x/y/composer.json", nil)
		require.NoError(t, err)
		assert.Equal(t, "x/y", pkg.DirectoryName())
	})
}

func TestResolve_Errors(t *testing.T) {
	h := setup(t, map[string]string{
		"/project/vendor/bad/json/composer.json": `{"name": `,
	})
	c := catalog.New(h, "/project/vendor")

	_, err := c.Resolve("/project/vendor/missing/pkg/composer.json", nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfiguration))
	assert.Contains(t, err.Error(), "could not read manifest")

	_, err = c.Resolve("/project/vendor/bad/json/composer.json", nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrParse))

	assert.Equal(t, 0, c.Len())
}
