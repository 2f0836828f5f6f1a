package symbols

import (
	"sort"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/arthur-debert/mozart/pkg/errors"
)

// Kind tells which renaming scheme a Rule implements.
type Kind int

const (
	// KindNamespace prefixes namespace paths.
	KindNamespace Kind = iota
	// KindClass renames global class names.
	KindClass
)

func (k Kind) String() string {
	if k == KindClass {
		return "class"
	}
	return "namespace"
}

// Rename maps an original symbol to its replacement.
type Rename struct {
	From string
	To   string
}

// identifier characters as PHP defines them
const identChars = `A-Za-z0-9_\x7f-\uffff`

// Rule is a compiled set of renames of one kind.
type Rule struct {
	kind    Kind
	renames []Rename
	lookup  map[string]string
	re      *regexp2.Regexp

	// scoped replaces re for class rules in files declaring a namespace
	scoped *regexp2.Regexp
}

// NewNamespaceRule compiles namespace renames. host is the namespace every
// replacement starts with; text already starting with it is left alone.
// Renames with an empty From are ignored.
func NewNamespaceRule(host string, renames []Rename) (*Rule, error) {
	host = strings.TrimSuffix(host, `\`) + `\`
	r := &Rule{kind: KindNamespace, lookup: map[string]string{}}

	var qualified, short []string
	for _, rn := range dedupe(renames) {
		from := strings.Trim(rn.From, `\`)
		to := strings.Trim(rn.To, `\`)
		if from == "" {
			continue
		}
		r.renames = append(r.renames, Rename{From: from, To: to})
		r.lookup[from] = to
		if !strings.Contains(from, `\`) {
			short = append(short, from)
			continue
		}
		qualified = append(qualified, from, escapeBackslashes(from))
	}
	if len(qualified)+len(short) == 0 {
		return r, nil
	}

	// A qualified prefix ends at any identifier boundary, except where it
	// names a class or function of its parent namespace. A single segment
	// needs a namespace context after it.
	var names []string
	if len(qualified) > 0 {
		names = append(names, `(?<name>`+alternation(qualified)+`)`+
			`(?=(?<esc>\\\\)|\\|(?![`+identChars+`]|\s*::|\s*\())`)
	}
	if len(short) > 0 {
		names = append(names, `(?<short>`+alternation(short)+`)`+
			`(?=(?<shortesc>\\\\)|[\\;|]|\s*\{|\s+as\b)`)
	}

	pattern := `(?<![` + identChars + `\\$])` +
		`(?<lead>\\{0,2})` +
		`(?!` + regexp2.Escape(host) + `|` + regexp2.Escape(escapeBackslashes(host)) + `)` +
		`(?:` + strings.Join(names, "|") + `)`

	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to compile namespace rule")
	}
	r.re = re
	return r, nil
}

// NewClassRule compiles global class renames. References preceded by ->
// or :: and file names such as Foo.php are not rewritten, nor are comments,
// function and constant names. String literals are renamed only when the
// whole literal is the class name.
//
// In a file declaring a namespace a bare name resolves against that
// namespace, so only fully qualified references and top level imports
// are renamed there. An import keeps its short name as an alias.
func NewClassRule(renames []Rename) (*Rule, error) {
	r := &Rule{kind: KindClass, lookup: map[string]string{}}

	var alternatives []string
	for _, rn := range dedupe(renames) {
		from := strings.TrimPrefix(rn.From, `\`)
		if from == "" || strings.Contains(from, `\`) {
			continue
		}
		r.renames = append(r.renames, Rename{From: from, To: rn.To})
		r.lookup[from] = rn.To
		alternatives = append(alternatives, from)
	}
	if len(alternatives) == 0 {
		return r, nil
	}

	names := alternation(alternatives)
	after := `(?![` + identChars + `\\]|\.[A-Za-z])`

	global := skipped +
		`|(?<![` + identChars + `$\\]|->|::|\bfunction\s+&?\s*|\bconst\s+)` +
		`(?<lead>\\?)(?<name>` + names + `)` + after

	scoped := skipped +
		`|(?<![` + identChars + `$\\]|->|::)(?<lead>\\)(?<name>` + names + `)` + after +
		`|(?<=^use[ \t]+)(?<importlead>\\?)(?<import>` + names + `)` +
		`(?=[ \t]*;(?<bare>)|[ \t]+as\b)`

	var err error
	if r.re, err = regexp2.Compile(global, regexp2.None); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to compile class rule")
	}
	if r.scoped, err = regexp2.Compile(scoped, regexp2.Multiline); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to compile class rule")
	}
	return r, nil
}

// skipped matches comments and string literals so class rules can step
// over them.
const skipped = `(?<comment>//[^\n]*|#(?!\[)[^\n]*|/\*[\s\S]*?\*/)` +
	`|(?<literal>'(?:[^'\\]|\\[\s\S])*'|"(?:[^"\\]|\\[\s\S])*")`

// Kind returns the renaming scheme.
func (r *Rule) Kind() Kind { return r.kind }

// Renames returns the renames in matching order, longest first.
func (r *Rule) Renames() []Rename {
	out := make([]Rename, len(r.renames))
	copy(out, r.renames)
	return out
}

// Empty reports whether the rule renames nothing.
func (r *Rule) Empty() bool { return r == nil || r.re == nil }

// Apply rewrites content.
func (r *Rule) Apply(content string) (string, error) {
	if r.Empty() || content == "" {
		return content, nil
	}
	re := r.re
	if r.scoped != nil && Namespace(content) != "" {
		re = r.scoped
	}
	out, err := re.ReplaceFunc(content, r.replace, -1, -1)
	if err != nil {
		return content, errors.Wrap(err, errors.ErrInternal, "failed to apply rule").
			WithDetail("kind", r.kind.String())
	}
	return out, nil
}

func (r *Rule) replace(m regexp2.Match) string {
	switch {
	case captured(m, "comment"):
		return m.String()
	case captured(m, "literal"):
		return r.renameLiteral(m.String())
	case captured(m, "import"):
		name := text(m, "import")
		to, ok := r.lookup[name]
		if !ok {
			return m.String()
		}
		to = text(m, "importlead") + to
		if captured(m, "bare") {
			return to + " as " + name
		}
		return to
	}

	lead := text(m, "lead")
	name := text(m, "name")
	if captured(m, "short") {
		name = text(m, "short")
	}

	// names written with doubled separators, or followed by one, live
	// in string literals and get the doubled form of the replacement
	escaped := strings.Contains(name, `\\`) || captured(m, "esc") || captured(m, "shortesc")
	if escaped {
		name = strings.ReplaceAll(name, `\\`, `\`)
	}

	to, ok := r.lookup[name]
	if !ok {
		return m.String()
	}
	if escaped {
		to = escapeBackslashes(to)
	}
	return lead + to
}

// renameLiteral renames a quoted class name, optionally fully qualified
// or followed by a static member as in 'Foo::create'.
func (r *Rule) renameLiteral(literal string) string {
	quote, body := literal[:1], literal[1:len(literal)-1]
	name := strings.TrimLeft(body, `\`)
	lead := body[:len(body)-len(name)]
	if len(lead) > 2 {
		return literal
	}
	rest := ""
	if i := strings.Index(name, "::"); i >= 0 {
		name, rest = name[:i], name[i:]
	}
	to, ok := r.lookup[name]
	if !ok {
		return literal
	}
	return quote + lead + to + rest + quote
}

func captured(m regexp2.Match, group string) bool {
	g := m.GroupByName(group)
	return g != nil && len(g.Captures) > 0
}

func text(m regexp2.Match, group string) string {
	if !captured(m, group) {
		return ""
	}
	return m.GroupByName(group).String()
}

func alternation(names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})

	quoted := make([]string, len(sorted))
	for i, name := range sorted {
		quoted[i] = regexp2.Escape(name)
	}
	return strings.Join(quoted, "|")
}

// dedupe drops repeated From values and orders renames longest first.
func dedupe(renames []Rename) []Rename {
	seen := map[string]bool{}
	out := make([]Rename, 0, len(renames))
	for _, rn := range renames {
		if seen[rn.From] {
			continue
		}
		seen[rn.From] = true
		out = append(out, rn)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].From) > len(out[j].From)
	})
	return out
}

func escapeBackslashes(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}
