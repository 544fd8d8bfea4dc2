// Package test implements the core logic of the test command.
// The controller sequences the settings fetch, the analysis request, and the
// chosen output mode (local rendering or report upload), and normalizes every
// failure path into the classified error taxonomy. The remote collaborators
// are injected through narrow interfaces so tests can fake them.
package test

import (
	"context"

	"github.com/sastctl/sastctl/pkg/api"
	"github.com/sastctl/sastctl/pkg/sarif"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

type SettingsResolver interface {
	GetSastSettings(ctx context.Context, org string) (*api.Settings, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, logE *logrus.Entry, path, org, requestID string) (*sarif.Log, error)
}

type ReportUploader interface {
	UploadReport(ctx context.Context, r *api.ReportRequest) (*api.ReportOutcome, error)
}

type Controller struct {
	settingsResolver SettingsResolver
	analyzer         Analyzer
	uploader         ReportUploader
	fs               afero.Fs
	param            *Param
}

// Param is the option bag of a test run.
type Param struct {
	// Paths are the candidate scan targets. Only the first path is
	// scanned; the others are ignored. This is deliberate single-path
	// behavior, not a gap.
	Paths []string
	// Org is the caller-supplied organization. When empty it is
	// backfilled from the resolved settings; an explicit value always
	// wins.
	Org string
	// Report uploads the result set as a shareable report instead of
	// rendering it locally.
	Report      bool
	ProjectID   string
	ProjectName string
	TargetRef   string
	// NoMarkdown strips markdown explanations from findings before any
	// rendering or serialization.
	NoMarkdown bool
	// Sarif and JSON replace the readable output with the serialized
	// result set in local mode.
	Sarif bool
	JSON  bool
	// SarifFileOutput and JSONFileOutput are file paths for serialized
	// copies of the result set, written regardless of the display mode.
	SarifFileOutput string
	JSONFileOutput  string
}

func New(settingsResolver SettingsResolver, analyzer Analyzer, uploader ReportUploader, fs afero.Fs, param *Param) *Controller {
	return &Controller{
		settingsResolver: settingsResolver,
		analyzer:         analyzer,
		uploader:         uploader,
		fs:               fs,
		param:            param,
	}
}
