// TEST TYPE: Unit Tests
// DEPENDENCIES: In-memory filesystem
// PURPOSE: Verify transitive resolution, deduplication and pseudo packages

package resolver_test

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/mozart/pkg/autoload"
	"github.com/arthur-debert/mozart/pkg/catalog"
	"github.com/arthur-debert/mozart/pkg/errors"
	"github.com/arthur-debert/mozart/pkg/filesystem"
	"github.com/arthur-debert/mozart/pkg/manifest"
	"github.com/arthur-debert/mozart/pkg/resolver"
)

// install writes vendor/<slug>/composer.json requiring deps
func install(t *testing.T, fs afero.Fs, slug string, deps ...string) {
	t.Helper()
	reqs := ""
	for i, d := range deps {
		if i > 0 {
			reqs += ","
		}
		reqs += fmt.Sprintf("%q: \"*\"", d)
	}
	content := fmt.Sprintf(`{"name": %q, "require": {%s}, "autoload": {"psr-4": {"X\\": "src/"}}}`, slug, reqs)
	path := fmt.Sprintf("/project/vendor/%s/composer.json", slug)
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newResolver(fs afero.Fs, overrides map[string]manifest.Autoload) *resolver.Resolver {
	h := filesystem.NewHandler(fs, "/project")
	return resolver.New(h, catalog.New(h, "/project/vendor"), "/project", overrides)
}

func TestResolve_Diamond(t *testing.T) {
	fs := filesystem.NewMemory()
	install(t, fs, "a/a", "b/b", "c/c")
	install(t, fs, "b/b", "d/d")
	install(t, fs, "c/c", "d/d")
	install(t, fs, "d/d")

	set, err := newResolver(fs, nil).Resolve([]string{"a/a"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a/a", "b/b", "d/d", "c/c"}, set.Slugs())

	// b and c share the same d instance
	b, c := set[1], set[3]
	require.Len(t, b.Dependencies, 1)
	require.Len(t, c.Dependencies, 1)
	assert.Same(t, b.Dependencies[0], c.Dependencies[0])
}

func TestResolve_CycleTerminates(t *testing.T) {
	fs := filesystem.NewMemory()
	install(t, fs, "a/a", "b/b")
	install(t, fs, "b/b", "a/a")

	set, err := newResolver(fs, nil).Resolve([]string{"a/a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/a", "b/b"}, set.Slugs())
	assert.Same(t, set[0], set[1].Dependencies[0])
}

func TestResolve_PseudoPackagesDropped(t *testing.T) {
	fs := filesystem.NewMemory()
	install(t, fs, "a/a", "php", "ext-json", "lib-pcre", "composer-plugin-api", "php-64bit", "hhvm-nightly")

	set, err := newResolver(fs, nil).Resolve([]string{"php", "ext-mbstring", "composer-platform-api", "a/a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/a"}, set.Slugs())
	assert.Empty(t, set[0].Dependencies)
}

func TestResolve_MissingSlug(t *testing.T) {
	fs := filesystem.NewMemory()
	install(t, fs, "a/a", "missing/pkg")

	_, err := newResolver(fs, nil).Resolve([]string{"a/a"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrResolution))
	assert.Contains(t, err.Error(), "could not locate installed package for slug")
	assert.Equal(t, "missing/pkg", errors.GetErrorDetails(err)["slug"])
}

func TestResolve_Override(t *testing.T) {
	fs := filesystem.NewMemory()
	install(t, fs, "a/a")

	r := newResolver(fs, map[string]manifest.Autoload{
		"a/a": {Classmap: []string{"lib/"}},
	})
	pkg, err := r.PackageBySlug("a/a")
	require.NoError(t, err)
	require.Len(t, pkg.Autoloaders, 1)
	assert.Equal(t, autoload.StandardClassmap, pkg.Autoloaders[0].Standard())
}

func TestResolve_Empty(t *testing.T) {
	set, err := newResolver(filesystem.NewMemory(), nil).Resolve(nil)
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestIsPseudoPackage(t *testing.T) {
	for _, slug := range []string{
		"php", "PHP", "php-64bit", "php-zts", "ext-json", "lib-icu", "hhvm", "hhvm-nightly",
		"composer", "composer-plugin-api", "composer-runtime-api", "composer-platform-api",
	} {
		assert.True(t, resolver.IsPseudoPackage(slug), slug)
	}
	for _, slug := range []string{"phpunit/phpunit", "psr/log", "composer/installers"} {
		assert.False(t, resolver.IsPseudoPackage(slug), slug)
	}
}
