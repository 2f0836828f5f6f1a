package symbols

import (
	"regexp"
	"strings"
)

var (
	namespaceDecl = regexp.MustCompile(`(?m)^[ \t]*namespace[ \t]+([A-Za-z_\x{7f}-\x{ffff}][A-Za-z0-9_\x{7f}-\x{ffff}\\]*)[ \t]*[;{]`)
	classDecl     = regexp.MustCompile(`(?mi)^[ \t]*(?:(?:abstract|final|readonly)[ \t]+)*(?:class|interface|trait|enum)[ \t]+([A-Za-z_\x{7f}-\x{ffff}][A-Za-z0-9_\x{7f}-\x{ffff}]*)`)
)

// Namespace returns the first namespace declared in content, or "" for
// code in the global namespace.
func Namespace(content string) string {
	m := namespaceDecl.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.Trim(m[1], `\`)
}

// Classes returns the class-like names (class, interface, trait, enum)
// declared in content, in order of appearance, without duplicates.
func Classes(content string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range classDecl.FindAllStringSubmatch(content, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}

// Qualified returns the fully qualified names declared in content.
func Qualified(content string) []string {
	ns := Namespace(content)
	classes := Classes(content)
	if ns == "" {
		return classes
	}
	out := make([]string, len(classes))
	for i, name := range classes {
		out[i] = ns + `\` + name
	}
	return out
}

// GlobalClasses returns the class names declared by content when it has no
// namespace declaration. Namespaced files declare no global classes.
func GlobalClasses(content string) []string {
	if Namespace(content) != "" {
		return nil
	}
	return Classes(content)
}
