package output_test

import (
	"strings"
	"testing"

	"github.com/sastctl/sastctl/pkg/output"
	"github.com/sastctl/sastctl/pkg/sarif"
)

func TestDisplayedOutput(t *testing.T) {
	t.Parallel()
	data := []struct {
		name     string
		log      *sarif.Log
		contains []string
		excludes []string
	}{
		{
			name: "no issues",
			log:  &sarif.Log{},
			contains: []string{
				"Testing /app ...",
				"Project path: /app",
				"No issues were found",
			},
		},
		{
			name: "issues with locations",
			log: &sarif.Log{
				Runs: []sarif.Run{
					{
						Results: []sarif.Result{
							{
								RuleID:  "go/sql-injection",
								Level:   "error",
								Message: sarif.Message{Text: "SQL injection"},
								Locations: []sarif.Location{
									{
										PhysicalLocation: sarif.PhysicalLocation{
											ArtifactLocation: sarif.ArtifactLocation{URI: "db/query.go"},
											Region:           sarif.Region{StartLine: 42},
										},
									},
								},
							},
							{
								RuleID:  "go/xss",
								Level:   "warning",
								Message: sarif.Message{Text: "Cross-site scripting"},
							},
						},
					},
				},
			},
			contains: []string{
				"SQL injection",
				"Cross-site scripting",
				"Path: db/query.go, line 42",
				"2 issue(s) found",
			},
			excludes: []string{
				"No issues were found",
			},
		},
		{
			name: "markdown explanation is shown when present",
			log: &sarif.Log{
				Runs: []sarif.Run{
					{
						Results: []sarif.Result{
							{
								Level: "note",
								Message: sarif.Message{
									Text:     "Weak hash",
									Markdown: "Use SHA-256 instead",
								},
							},
						},
					},
				},
			},
			contains: []string{
				"Weak hash",
				"Info: Use SHA-256 instead",
			},
		},
	}
	for _, d := range data {
		d := d
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			got := output.DisplayedOutput(d.log, output.Meta("my-org", "/app"), output.Prefix("/app"))
			for _, s := range d.contains {
				if !strings.Contains(got, s) {
					t.Fatalf("output must contain %q:\n%s", s, got)
				}
			}
			for _, s := range d.excludes {
				if strings.Contains(got, s) {
					t.Fatalf("output must not contain %q:\n%s", s, got)
				}
			}
		})
	}
}

func TestMeta(t *testing.T) {
	t.Parallel()
	got := output.Meta("my-org", "/app")
	for _, s := range []string{"Organization: my-org", "Project path: /app"} {
		if !strings.Contains(got, s) {
			t.Fatalf("meta must contain %q:\n%s", s, got)
		}
	}
	if strings.Contains(output.Meta("", "/app"), "Organization") {
		t.Fatal("meta must omit the organization line when the org is empty")
	}
}

func TestReportDisplayedOutput(t *testing.T) {
	t.Parallel()
	got := output.ReportDisplayedOutput("https://app.example.com/project/proj-1", output.Meta("my-org", "/app"), output.Prefix("/app"))
	for _, s := range []string{
		"Testing /app ...",
		"Your test results are available at:",
		"https://app.example.com/project/proj-1",
	} {
		if !strings.Contains(got, s) {
			t.Fatalf("output must contain %q:\n%s", s, got)
		}
	}
}
