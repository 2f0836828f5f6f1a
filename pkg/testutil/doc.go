// Package testutil provides utilities for testing mozart components.
//
// Key components:
//   - TestEnvironment: a host project on an in-memory or temp-dir filesystem
//   - PackageConfig: declarative setup of installed vendor packages
//   - HostConfig: a valid configuration pointing at the environment
//
// Most tests should use EnvMemoryOnly. EnvIsolated exists for the code
// paths that touch the OS filesystem directly (symlinks, config files).
package testutil
