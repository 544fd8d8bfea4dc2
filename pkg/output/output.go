// Package output renders analysis results as human-readable text.
// All functions are pure; callers decide where the text goes.
package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sastctl/sastctl/pkg/sarif"
)

type colorFunc func(a ...interface{}) string

var (
	red    colorFunc = color.New(color.FgRed).SprintFunc()
	yellow colorFunc = color.New(color.FgYellow).SprintFunc()
	blue   colorFunc = color.New(color.FgBlue).SprintFunc()
	green  colorFunc = color.New(color.FgGreen).SprintFunc()
	bold   colorFunc = color.New(color.Bold).SprintFunc()
)

// Prefix returns the banner line shown before any result output.
func Prefix(path string) string {
	return bold("Testing " + path + " ...")
}

// Meta returns the run metadata block.
func Meta(org, path string) string {
	lines := []string{
		"Test type: Static code analysis",
		"Project path: " + path,
	}
	if org != "" {
		lines = append([]string{"Organization: " + org}, lines...)
	}
	return strings.Join(lines, "\n")
}

func severity(level string) string {
	switch level {
	case "error":
		return red("[High]")
	case "warning":
		return yellow("[Medium]")
	default:
		return blue("[Low]")
	}
}

// DisplayedOutput renders every result of the first run followed by a
// summary line.
func DisplayedOutput(l *sarif.Log, meta, prefix string) string {
	b := &strings.Builder{}
	b.WriteString(prefix)
	b.WriteString("\n\n")
	b.WriteString(meta)
	b.WriteString("\n\n")
	count := l.IssueCount()
	if count == 0 {
		b.WriteString(green("✔") + " Awesome! No issues were found.\n")
		return b.String()
	}
	for _, r := range l.Runs[0].Results {
		fmt.Fprintf(b, " %s %s %s\n", red("✗"), severity(r.Level), r.Message.Text)
		if r.Message.Markdown != "" {
			fmt.Fprintf(b, "   Info: %s\n", r.Message.Markdown)
		}
		for _, loc := range r.Locations {
			fmt.Fprintf(b, "   Path: %s, line %d\n", loc.PhysicalLocation.ArtifactLocation.URI, loc.PhysicalLocation.Region.StartLine)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "%s %d issue(s) found\n", red("✗"), count)
	return b.String()
}

// ReportDisplayedOutput renders the line shown after a successful report
// upload.
func ReportDisplayedOutput(url, meta, prefix string) string {
	b := &strings.Builder{}
	b.WriteString(prefix)
	b.WriteString("\n\n")
	b.WriteString(meta)
	b.WriteString("\n\n")
	b.WriteString("Your test results are available at:\n" + bold(url) + "\n")
	return b.String()
}
