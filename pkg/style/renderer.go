package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/mozart/pkg/compose"
	"github.com/arthur-debert/mozart/pkg/errors"
)

// Renderer turns run results into human readable output
type Renderer interface {
	RenderCompose(result *compose.Result) string
	RenderList(result *compose.Result) string
	RenderError(err error) string
}

// NewRenderer returns the renderer for a resolved, non structured format
func NewRenderer(f Format) Renderer {
	if f == FormatTerminal {
		return NewTerminalRenderer()
	}
	return NewPlainRenderer()
}

// TerminalRenderer implements Renderer with rich terminal output
type TerminalRenderer struct{}

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{}
}

// RenderCompose renders the packages, renames and counters of a compose run
func (r *TerminalRenderer) RenderCompose(result *compose.Result) string {
	if len(result.Packages) == 0 {
		return MutedStyle.Render("No packages to compose")
	}

	var out strings.Builder
	out.WriteString(TitleStyle.Render("Composed packages") + "\n\n")

	for _, pkg := range result.Packages {
		indicator := SuccessIndicator
		name := Bold(pkg.Name)
		if pkg.Excluded {
			indicator = SkippedIndicator
			name = MutedStyle.Render(pkg.Name + " (excluded)")
		}
		out.WriteString(fmt.Sprintf("%s %s\n", indicator, name))

		for _, rn := range result.Renames {
			if rn.Package != pkg.Name {
				continue
			}
			line := fmt.Sprintf("%s → %s", rn.From, StandardStyle(rn.Standard).Render(rn.To))
			out.WriteString(Indent(line, 1) + "\n")
		}
	}

	summary := fmt.Sprintf("%d packages relocated, %d files rewritten, %d skipped",
		result.Relocated(), result.Stats.FilesRewritten, result.Stats.FilesSkipped)
	out.WriteString("\n" + BoxStyle.Render(summary))
	return out.String()
}

// RenderList renders the resolved dependency set as a table
func (r *TerminalRenderer) RenderList(result *compose.Result) string {
	if len(result.Packages) == 0 {
		return MutedStyle.Render("No packages found")
	}

	data := pterm.TableData{{"Package", "Directory", "Autoload", "Requires"}}
	for _, pkg := range result.Packages {
		name := pkg.Name
		if pkg.Excluded {
			name = MutedStyle.Render(name + " (excluded)")
		}
		data = append(data, []string{
			name,
			PathStyle.Render(pkg.DirectoryName),
			strings.Join(pkg.Autoloaders, "\n"),
			strings.Join(pkg.Dependencies, ", "),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return NewPlainRenderer().RenderList(result)
	}
	return TitleStyle.Render("Resolved packages") + "\n\n" + strings.TrimRight(table, "\n")
}

// RenderError renders an error message
func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	code := errors.GetErrorCode(err)
	if code == errors.ErrUnknown {
		return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, ErrorStyle.Render(err.Error()))
	}
	return fmt.Sprintf("%s Error [%s]: %s",
		pterm.Error.Prefix.Text,
		ErrorStyle.Render(string(code)),
		err.Error())
}

// PlainRenderer implements Renderer with plain text output (no styling)
type PlainRenderer struct{}

// NewPlainRenderer creates a new plain text renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

func (r *PlainRenderer) RenderCompose(result *compose.Result) string {
	if len(result.Packages) == 0 {
		return "No packages to compose"
	}

	var out strings.Builder
	for _, pkg := range result.Packages {
		if pkg.Excluded {
			out.WriteString(fmt.Sprintf("%s (excluded)\n", pkg.Name))
			continue
		}
		out.WriteString(pkg.Name + "\n")
		for _, rn := range result.Renames {
			if rn.Package == pkg.Name {
				out.WriteString(fmt.Sprintf("  %s -> %s\n", rn.From, rn.To))
			}
		}
	}
	out.WriteString(fmt.Sprintf("%d packages relocated, %d files rewritten, %d skipped",
		result.Relocated(), result.Stats.FilesRewritten, result.Stats.FilesSkipped))
	return out.String()
}

func (r *PlainRenderer) RenderList(result *compose.Result) string {
	if len(result.Packages) == 0 {
		return "No packages found"
	}

	var out strings.Builder
	for _, pkg := range result.Packages {
		line := pkg.Name
		if pkg.Excluded {
			line += " (excluded)"
		}
		if len(pkg.Dependencies) > 0 {
			line += ": " + strings.Join(pkg.Dependencies, ", ")
		}
		out.WriteString(line + "\n")
	}
	return strings.TrimRight(out.String(), "\n")
}

func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", err.Error())
}
