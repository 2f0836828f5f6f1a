package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/mozart/pkg/autoload"
)

func TestPackage_DirectoryName(t *testing.T) {
	withDir := NewPackage("vendor/package-name", "/p/vendor/vendor/package-path/composer.json", "/p/vendor/vendor/package-path", "vendor/package-path")
	assert.Equal(t, "vendor/package-path", withDir.DirectoryName())
	assert.Equal(t, "vendor/package-name (vendor/package-path)", withDir.String())

	fallback := NewPackage("vendor/package-name", "/p/composer.json", "/p", "")
	assert.Equal(t, "vendor/package-name", fallback.DirectoryName())
}

func TestPackage_AddDependency(t *testing.T) {
	p := NewPackage("a/a", "/a/composer.json", "/a", "")
	dep := NewPackage("b/b", "/b/composer.json", "/b", "")

	p.AddDependency(dep)
	p.AddDependency(dep)

	assert.Len(t, p.Dependencies, 1)
	assert.Same(t, dep, p.Dependencies[0])
}

func TestPackage_HasStandard(t *testing.T) {
	p := NewPackage("a/a", "/a/composer.json", "/a", "")
	assert.False(t, p.HasStandard(autoload.StandardClassmap))

	p.Autoloaders = []autoload.Descriptor{autoload.NewPSR4(`A\`, "src/"), autoload.NewFiles([]string{"f.php"})}
	assert.True(t, p.HasStandard(autoload.StandardClassmap, autoload.StandardFiles))
	assert.False(t, p.HasStandard(autoload.StandardPSR0))
}
