package test

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sastctl/sastctl/pkg/api"
	"github.com/sastctl/sastctl/pkg/apperr"
	"github.com/sastctl/sastctl/pkg/output"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ErrIssuesFound lets the CLI layer map a completed scan with issues to a
// non-zero exit code. It is a sentinel; match it with errors.Is.
var ErrIssuesFound = apperr.New(apperr.CodeIssuesFound, "issues were found")

// Kind discriminates the outcome of a completed test run.
type Kind int

const (
	// KindClean means the scan completed and found nothing.
	KindClean Kind = iota
	// KindIssuesFound means the scan completed and found issues.
	KindIssuesFound
)

// Result is the outcome of a test run that reached the service. Failures
// are returned as errors instead.
type Result struct {
	Kind       Kind
	Readable   string
	Sarif      string
	JSON       string
	IssueCount int
}

// Test runs one scan and renders or uploads its results.
func (c *Controller) Test(ctx context.Context, logE *logrus.Entry) (*Result, error) { //nolint:cyclop,funlen
	// The request id only labels log lines. It never affects the outcome.
	requestID := uuid.NewString()
	logE = logE.WithField("request_id", requestID)

	if c.param.Report && c.param.ProjectID == "" && strings.TrimSpace(c.param.ProjectName) == "" {
		return nil, apperr.New(apperr.CodeValidationFailure, "No project ID or name specified")
	}
	if len(c.param.Paths) == 0 {
		return nil, apperr.New(apperr.CodeValidationFailure, "No path specified")
	}
	path := c.param.Paths[0]
	if len(c.param.Paths) > 1 {
		logE.WithField("ignored_paths", len(c.param.Paths)-1).Debug("only the first path is scanned")
	}

	settings, err := c.settingsResolver.GetSastSettings(ctx, c.param.Org)
	if err != nil {
		return nil, c.classify(logE, err)
	}
	if !settings.SastEnabled {
		return nil, apperr.New(apperr.CodeNotSupported, "Static code analysis is not supported for your organization")
	}
	if c.param.Org == "" && settings.Org != "" {
		c.param.Org = settings.Org
	}

	results, err := c.analyzer.Analyze(ctx, logE, path, c.param.Org, requestID)
	if err != nil {
		return nil, c.classify(logE, err)
	}
	if results == nil {
		return nil, apperr.New(apperr.CodeNoSupportedFiles, "There are no supported sast files in this directory")
	}
	issueCount := results.IssueCount()
	logE.WithField("issue_count", issueCount).Debug("analysis completed")

	prefix := output.Prefix(path)
	meta := output.Meta(c.param.Org, path)

	var readable string
	if c.param.Report {
		outcome, err := c.uploader.UploadReport(ctx, &api.ReportRequest{
			Org:         c.param.Org,
			ProjectID:   c.param.ProjectID,
			ProjectName: c.param.ProjectName,
			TargetRef:   c.param.TargetRef,
			Results:     results,
		})
		if err != nil {
			return nil, c.classify(logE, err)
		}
		readable = output.ReportDisplayedOutput(outcome.ProjectURL, meta, prefix)
	} else {
		if issueCount > 0 && c.param.NoMarkdown {
			results.StripMarkdown()
		}
		readable = output.DisplayedOutput(results, meta, prefix)
		if c.param.Sarif || c.param.JSON {
			s, err := results.Serialize()
			if err != nil {
				return nil, err
			}
			readable = s
		}
	}

	res := &Result{
		Kind:       KindClean,
		Readable:   readable,
		IssueCount: issueCount,
	}
	if issueCount > 0 {
		res.Kind = KindIssuesFound
	}
	if c.param.SarifFileOutput != "" {
		s, err := results.Serialize()
		if err != nil {
			return nil, err
		}
		res.Sarif = s
		if err := c.writeOutput(c.param.SarifFileOutput, s); err != nil {
			return nil, err
		}
	}
	if c.param.JSONFileOutput != "" {
		s, err := results.Serialize()
		if err != nil {
			return nil, err
		}
		res.JSON = s
		if err := c.writeOutput(c.param.JSONFileOutput, s); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (c *Controller) writeOutput(path, content string) error {
	if err := afero.WriteFile(c.fs, path, []byte(content), 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("write results to %s: %w", path, err)
	}
	return nil
}
