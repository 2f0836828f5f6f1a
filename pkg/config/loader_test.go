// TEST TYPE: Unit Tests
// DEPENDENCIES: In-memory filesystem, temp dir for explicit config files
// PURPOSE: Verify configuration layering and validation

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/mozart/pkg/errors"
	"github.com/arthur-debert/mozart/pkg/manifest"
)

const workDir = "/project"

func writeComposer(t *testing.T, fs afero.Fs, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(workDir, "composer.json"), []byte(content), 0644))
}

func TestLoad_ComposerSection(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeComposer(t, fs, `{
		"name": "host/plugin",
		"require": {"php": ">=7.4", "pimple/pimple": "^3.0"},
		"extra": {"mozart": {
			"dep_namespace": "Host\\Dependencies\\",
			"dep_directory": "/src/Dependencies/",
			"classmap_directory": "/classes/dependencies/",
			"classmap_prefix": "Host_",
			"excluded_packages": ["psr/container"],
			"delete_vendor_directories": false
		}}
	}`)

	cfg, err := Load(fs, workDir, Options{SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, `Host\Dependencies\`, cfg.DepNamespace)
	assert.Equal(t, "/src/Dependencies/", cfg.DepDirectory)
	assert.Equal(t, "/classes/dependencies/", cfg.ClassmapDirectory)
	assert.Equal(t, "Host_", cfg.ClassmapPrefix)
	assert.Equal(t, []string{"psr/container"}, cfg.ExcludedPackages)
	assert.False(t, cfg.DeleteVendorDirectories)
	assert.Equal(t, workDir, cfg.WorkingDir)

	// packages default to the root require section
	assert.Equal(t, []string{"php", "pimple/pimple"}, cfg.Packages)
}

func TestLoad_Defaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeComposer(t, fs, `{"extra": {"mozart": {"dep_namespace": "Host\\Deps", "dep_directory": "src/Deps", "packages": ["a/b"]}}}`)

	cfg, err := Load(fs, workDir, Options{SkipEnv: true})
	require.NoError(t, err)

	assert.True(t, cfg.DeleteVendorDirectories)
	assert.Empty(t, cfg.ExcludedClasses)
	assert.Equal(t, []string{"a/b"}, cfg.Packages)

	// trailing namespace separator is added
	assert.Equal(t, `Host\Deps\`, cfg.DepNamespace)
	assert.Equal(t, "/project/src/Deps", cfg.DepPath())
	assert.Equal(t, "", cfg.ClassmapPath())
	assert.Equal(t, "/project/vendor", cfg.VendorPath())
}

func TestLoad_OverrideAutoload(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeComposer(t, fs, `{"extra": {"mozart": {
		"dep_namespace": "Host\\",
		"dep_directory": "deps",
		"override_autoload": {
			"google/apiclient": {"classmap": ["src/"]},
			"some.vendor/pkg": {"psr-4": {"Some\\": "lib/"}}
		}
	}}}`)

	cfg, err := Load(fs, workDir, Options{SkipEnv: true})
	require.NoError(t, err)

	require.Len(t, cfg.OverrideAutoload, 2)
	assert.Equal(t, []string{"src/"}, cfg.OverrideAutoload["google/apiclient"].Classmap)
	assert.Equal(t, manifest.Paths{"lib/"}, cfg.OverrideAutoload["some.vendor/pkg"].PSR4[`Some\`])
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		composer string
		code     errors.ErrorCode
		contains string
	}{
		{
			name:     "missing_section",
			composer: `{"name": "host/plugin"}`,
			code:     errors.ErrConfiguration,
			contains: MsgMissingSection,
		},
		{
			name:     "section_not_an_object",
			composer: `{"extra": {"mozart": "yes"}}`,
			code:     errors.ErrConfiguration,
			contains: MsgMissingSection,
		},
		{
			name:     "empty_dep_namespace",
			composer: `{"extra": {"mozart": {"dep_namespace": "", "dep_directory": "deps"}}}`,
			code:     errors.ErrConfiguration,
			contains: "dep_namespace",
		},
		{
			name:     "empty_dep_directory",
			composer: `{"extra": {"mozart": {"dep_namespace": "Host\\"}}}`,
			code:     errors.ErrConfiguration,
			contains: "dep_directory",
		},
		{
			name:     "malformed_manifest",
			composer: `{"extra": `,
			code:     errors.ErrParse,
			contains: "could not parse manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeComposer(t, fs, tt.composer)

			cfg, err := Load(fs, workDir, Options{SkipEnv: true})
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad_MissingManifest(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), workDir, Options{SkipEnv: true})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfiguration))
	assert.Contains(t, err.Error(), "could not read manifest")
}

func TestLoad_LocalTomlOverridesComposer(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeComposer(t, fs, `{"extra": {"mozart": {"dep_namespace": "Host\\", "dep_directory": "deps", "excluded_classes": ["A"]}}}`)
	require.NoError(t, afero.WriteFile(fs, "/project/.mozart.toml", []byte(`
dep_directory = "lib/deps"
excluded_classes = ["B", "C"]
`), 0644))

	cfg, err := Load(fs, workDir, Options{SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, "lib/deps", cfg.DepDirectory)
	// lists are replaced, not appended
	assert.Equal(t, []string{"B", "C"}, cfg.ExcludedClasses)
	assert.Equal(t, `Host\`, cfg.DepNamespace)
}

func TestLoad_LocalYaml(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeComposer(t, fs, `{"extra": {"mozart": {"dep_namespace": "Host\\", "dep_directory": "deps"}}}`)
	require.NoError(t, afero.WriteFile(fs, "/project/.mozart.yaml", []byte("classmap_prefix: Yaml_\n"), 0644))

	cfg, err := Load(fs, workDir, Options{SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, "Yaml_", cfg.ClassmapPrefix)
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mozart.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`classmap_directory = "classes/deps"`), 0644))

	fs := afero.NewMemMapFs()
	writeComposer(t, fs, `{"extra": {"mozart": {"dep_namespace": "Host\\", "dep_directory": "deps"}}}`)
	require.NoError(t, afero.WriteFile(fs, "/project/.mozart.toml", []byte(`classmap_directory = "local"`), 0644))

	cfg, err := Load(fs, workDir, Options{ConfigFile: configPath, SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, "classes/deps", cfg.ClassmapDirectory)
	assert.Equal(t, "/project/classes/deps", cfg.ClassmapPath())
}

func TestLoad_ExplicitConfigFileMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeComposer(t, fs, `{"extra": {"mozart": {"dep_namespace": "Host\\", "dep_directory": "deps"}}}`)

	_, err := Load(fs, workDir, Options{ConfigFile: filepath.Join(t.TempDir(), "nope.toml"), SkipEnv: true})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfiguration))
}

func TestLoad_EnvironmentWins(t *testing.T) {
	t.Setenv("MOZART_DEP_DIRECTORY", "env/deps")
	t.Setenv("MOZART_EXCLUDED_PACKAGES", "a/b,c/d")
	t.Setenv("MOZART_DELETE_VENDOR_DIRECTORIES", "false")

	fs := afero.NewMemMapFs()
	writeComposer(t, fs, `{"extra": {"mozart": {"dep_namespace": "Host\\", "dep_directory": "deps"}}}`)

	cfg, err := Load(fs, workDir, Options{})
	require.NoError(t, err)
	assert.Equal(t, "env/deps", cfg.DepDirectory)
	assert.Equal(t, []string{"a/b", "c/d"}, cfg.ExcludedPackages)
	assert.False(t, cfg.DeleteVendorDirectories)
}
