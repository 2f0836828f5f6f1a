// Package config handles configuration management for mozart.
// It layers embedded defaults, the extra.mozart section of composer.json,
// optional .mozart.toml/.mozart.yaml files and MOZART_* environment
// variables into a single Config.
package config
