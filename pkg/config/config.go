package config

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/mozart/pkg/errors"
	"github.com/arthur-debert/mozart/pkg/manifest"
)

// Config is the effective mozart configuration for one working directory.
type Config struct {
	DepNamespace            string   `koanf:"dep_namespace" toml:"dep_namespace" json:"dep_namespace" yaml:"dep_namespace"`
	DepDirectory            string   `koanf:"dep_directory" toml:"dep_directory" json:"dep_directory" yaml:"dep_directory"`
	ClassmapDirectory       string   `koanf:"classmap_directory" toml:"classmap_directory" json:"classmap_directory" yaml:"classmap_directory"`
	ClassmapPrefix          string   `koanf:"classmap_prefix" toml:"classmap_prefix" json:"classmap_prefix" yaml:"classmap_prefix"`
	Packages                []string `koanf:"packages" toml:"packages" json:"packages" yaml:"packages"`
	ExcludedPackages        []string `koanf:"excluded_packages" toml:"excluded_packages" json:"excluded_packages" yaml:"excluded_packages"`
	ExcludedClasses         []string `koanf:"excluded_classes" toml:"excluded_classes" json:"excluded_classes" yaml:"excluded_classes"`
	DeleteVendorDirectories bool     `koanf:"delete_vendor_directories" toml:"delete_vendor_directories" json:"delete_vendor_directories" yaml:"delete_vendor_directories"`

	// OverrideAutoload replaces the autoload section of the keyed package.
	// Package slugs may contain dots, so this map bypasses koanf.
	OverrideAutoload map[string]manifest.Autoload `koanf:"-" toml:"override_autoload,omitempty" json:"override_autoload,omitempty" yaml:"override_autoload,omitempty"`

	WorkingDir string `koanf:"-" toml:"-" json:"-" yaml:"-"`
}

// Validate checks the invariants every run depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DepNamespace) == "" {
		return errors.New(errors.ErrConfiguration, "dep_namespace must be set").
			WithDetail("key", "dep_namespace")
	}
	if strings.TrimSpace(c.DepDirectory) == "" {
		return errors.New(errors.ErrConfiguration, "dep_directory must be set").
			WithDetail("key", "dep_directory")
	}
	return nil
}

// ValidateClassmap checks the keys only needed once a classmap package is
// part of the run.
func (c *Config) ValidateClassmap() error {
	if strings.TrimSpace(c.ClassmapDirectory) == "" {
		return errors.New(errors.ErrConfiguration, "classmap_directory must be set when a package uses classmap autoloading").
			WithDetail("key", "classmap_directory")
	}
	if strings.TrimSpace(c.ClassmapPrefix) == "" {
		return errors.New(errors.ErrConfiguration, "classmap_prefix must be set when a package uses classmap autoloading").
			WithDetail("key", "classmap_prefix")
	}
	return nil
}

// DepPath returns the absolute dependency output directory.
func (c *Config) DepPath() string {
	return c.resolve(c.DepDirectory)
}

// ClassmapPath returns the absolute classmap output directory, or "" when
// none is configured.
func (c *Config) ClassmapPath() string {
	if c.ClassmapDirectory == "" {
		return ""
	}
	return c.resolve(c.ClassmapDirectory)
}

// VendorPath is where composer installed the dependencies.
func (c *Config) VendorPath() string {
	return c.resolve("vendor")
}

// IsExcludedPackage reports whether slug is listed in excluded_packages.
func (c *Config) IsExcludedPackage(slug string) bool {
	return contains(c.ExcludedPackages, slug)
}

// IsExcludedClass reports whether name is listed in excluded_classes. A
// leading backslash is ignored on both sides.
func (c *Config) IsExcludedClass(name string) bool {
	name = strings.TrimPrefix(name, `\`)
	for _, excluded := range c.ExcludedClasses {
		if strings.TrimPrefix(excluded, `\`) == name {
			return true
		}
	}
	return false
}

// resolve anchors p at the working directory. Leading slashes, as written
// in composer.json ("/src/Dependencies/"), are relative to it too.
func (c *Config) resolve(p string) string {
	clean := filepath.Clean(p)
	root := filepath.Clean(c.WorkingDir)
	if c.WorkingDir != "" && (clean == root || strings.HasPrefix(clean, root+string(filepath.Separator))) {
		return clean
	}
	return filepath.Join(c.WorkingDir, strings.TrimLeft(p, `/\`))
}

// normalize applies the canonical forms the rewrite engine expects.
func (c *Config) normalize() {
	c.DepNamespace = strings.TrimSpace(c.DepNamespace)
	if c.DepNamespace != "" && !strings.HasSuffix(c.DepNamespace, `\`) {
		c.DepNamespace += `\`
	}
	c.DepNamespace = strings.TrimPrefix(c.DepNamespace, `\`)
	c.ClassmapPrefix = strings.TrimSpace(c.ClassmapPrefix)
	c.Packages = compact(c.Packages)
	c.ExcludedPackages = compact(c.ExcludedPackages)
	c.ExcludedClasses = compact(c.ExcludedClasses)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func compact(list []string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item == "" || contains(out, item) {
			continue
		}
		out = append(out, item)
	}
	return out
}
