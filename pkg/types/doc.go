// Package types defines the Package entity shared by the catalog, the
// resolver, the relocator and the rewrite engine.
package types
