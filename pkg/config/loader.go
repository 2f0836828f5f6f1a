package config

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"

	"github.com/arthur-debert/mozart/pkg/errors"
	"github.com/arthur-debert/mozart/pkg/filesystem"
	"github.com/arthur-debert/mozart/pkg/logging"
	"github.com/arthur-debert/mozart/pkg/manifest"
)

const (
	// EnvPrefix is the prefix of environment variables overriding config keys
	EnvPrefix = "MOZART_"

	// MsgMissingSection is reported when composer.json has no extra.mozart
	MsgMissingSection = "Mozart config not readable in composer.json at extra->mozart"

	overrideKey = "override_autoload"
)

// LocalConfigFiles are looked up in the working directory, first match wins
var LocalConfigFiles = []string{".mozart.toml", ".mozart.yaml", ".mozart.yml"}

// Options tune Load.
type Options struct {
	// ConfigFile is an explicit configuration file layered above the local
	// files. Its format follows the extension (.toml, .yaml, .yml).
	ConfigFile string

	// SkipEnv disables the MOZART_* environment layer.
	SkipEnv bool
}

// Load builds the effective configuration for workingDir. Sources are
// applied in order: embedded defaults, extra.mozart of composer.json, the
// first local config file, opts.ConfigFile, MOZART_* variables.
func Load(fs afero.Fs, workingDir string, opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	h := filesystem.NewHandler(fs, workingDir)

	doc, err := manifest.Read(h, filepath.Join(workingDir, manifest.FileName))
	if err != nil {
		return nil, err
	}

	raw := doc.MozartConfig()
	if raw == nil {
		return nil, errors.New(errors.ErrConfiguration, MsgMissingSection).
			WithDetail("path", filepath.Join(workingDir, manifest.FileName))
	}

	section, overrides, err := splitSection(raw)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load defaults")
	}

	// 2. Load composer.json extra.mozart
	if err := k.Load(confmap.Provider(section, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfiguration, MsgMissingSection)
	}

	// 3. Load local config file if it exists
	for _, name := range LocalConfigFiles {
		path := filepath.Join(workingDir, name)
		if !h.Exists(path) {
			continue
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfiguration, "failed to read %s", name)
		}
		if err := k.Load(&rawBytesProvider{bytes: data}, parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrParse, "failed to parse %s", name)
		}
		logger.Debug().Str("file", path).Msg("Loaded local config")
		break
	}

	// 4. Load explicit config file
	if opts.ConfigFile != "" {
		if err := k.Load(file.Provider(opts.ConfigFile), parserFor(opts.ConfigFile)); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfiguration, "failed to load config file").
				WithDetail("path", opts.ConfigFile)
		}
		logger.Debug().Str("file", opts.ConfigFile).Msg("Loaded config file")
	}

	// 5. Load env vars
	if !opts.SkipEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
			return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		}), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfiguration, "failed to load env vars")
		}
	}

	// 6. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfiguration, "failed to unmarshal configuration")
	}

	// 7. Post-process
	cfg.OverrideAutoload = overrides
	cfg.WorkingDir = workingDir
	cfg.normalize()
	if len(cfg.Packages) == 0 {
		cfg.Packages = doc.Requires()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("dep_namespace", cfg.DepNamespace).
		Str("dep_directory", cfg.DepDirectory).
		Int("packages", len(cfg.Packages)).
		Msg("Configuration loaded")

	return &cfg, nil
}

// splitSection separates the koanf-friendly scalar keys from the
// override_autoload map.
func splitSection(raw json.RawMessage) (map[string]interface{}, map[string]manifest.Autoload, error) {
	var section map[string]interface{}
	if err := json.Unmarshal(raw, &section); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrConfiguration, MsgMissingSection)
	}
	delete(section, overrideKey)

	var withOverrides struct {
		OverrideAutoload map[string]manifest.Autoload `json:"override_autoload"`
	}
	if err := json.Unmarshal(raw, &withOverrides); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrParse, "invalid override_autoload section")
	}
	return section, withOverrides.OverrideAutoload, nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}
