// Package symbols compiles symbol renames into rules that rewrite PHP
// source text.
//
// A Rule never parses PHP. It matches names on identifier boundaries, so
// Foo\Bar is not found inside Foo\BarBaz or Other\Foo\Bar, and it refuses
// text already carrying the replacement, so applying a rule twice yields
// the same output as applying it once.
package symbols
