// Package compose runs the mozart pipeline for one working directory:
// resolve dependencies → clear targets → relocate → rewrite → clean up.
package compose

import (
	"time"

	"github.com/spf13/afero"

	"github.com/arthur-debert/mozart/pkg/config"
	"github.com/arthur-debert/mozart/pkg/rewrite"
)

// Options contains execution options for a run.
type Options struct {
	// WorkingDir is the host project directory holding composer.json
	WorkingDir string

	// FileSystem to use (optional, defaults to OS filesystem)
	FileSystem afero.Fs

	// ConfigFile is an explicit configuration file layered over composer.json
	ConfigFile string

	// SkipEnv disables MOZART_* environment overrides
	SkipEnv bool

	// Config skips loading when set
	Config *config.Config
}

// PackageResult describes one resolved package.
type PackageResult struct {
	Name          string   `json:"name" yaml:"name"`
	DirectoryName string   `json:"directory" yaml:"directory"`
	Excluded      bool     `json:"excluded" yaml:"excluded"`
	Dependencies  []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Autoloaders   []string `json:"autoloaders,omitempty" yaml:"autoloaders,omitempty"`
}

// Result contains the outcome of a run.
type Result struct {
	// RunID identifies the run in the log file
	RunID string `json:"run_id" yaml:"run_id"`

	// Command is "compose" or "list"
	Command string `json:"command" yaml:"command"`

	WorkingDir string          `json:"working_dir" yaml:"working_dir"`
	Packages   []PackageResult `json:"packages" yaml:"packages"`

	// Renames and Stats are only filled by compose
	Renames []rewrite.AppliedRename `json:"renames,omitempty" yaml:"renames,omitempty"`
	Stats   rewrite.Stats           `json:"stats" yaml:"stats"`

	// VendorDeleted tells whether the original vendor copies were removed
	VendorDeleted bool `json:"vendor_deleted" yaml:"vendor_deleted"`

	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Relocated counts the packages that were not excluded.
func (r *Result) Relocated() int {
	n := 0
	for _, p := range r.Packages {
		if !p.Excluded {
			n++
		}
	}
	return n
}
