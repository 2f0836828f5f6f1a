// Package filesystem provides the file handler every mozart component uses
// to touch disk.
//
// The handler wraps an afero.Fs so that production code runs against the OS
// filesystem while tests run against an in-memory one. Relative paths, and
// absolute paths that fall outside the working directory (the
// "/src/Dependencies/" style used in composer.json configuration), are
// resolved against the handler's root.
package filesystem
