package test

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sastctl/sastctl/pkg/api"
	"github.com/sastctl/sastctl/pkg/config"
	"github.com/sastctl/sastctl/pkg/controller/test"
	"github.com/sastctl/sastctl/pkg/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const defaultEndpoint = "https://api.sastctl.dev"

func New(logE *logrus.Entry, stdout io.Writer) *cli.Command {
	r := &runner{
		logE:   logE,
		stdout: stdout,
	}
	return r.Command()
}

type runner struct {
	logE   *logrus.Entry
	stdout io.Writer
}

func (r *runner) Command() *cli.Command {
	return &cli.Command{
		Name:  "test",
		Usage: "Scan a project with the static code analysis service",
		Description: `Scan the current directory:

$ sastctl test

You can also pass a project path.

e.g.

$ sastctl test ./app

Only the first path is scanned; additional paths are ignored.
`,
		Action: r.action,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "report",
				Usage: "Upload the results as a shareable report instead of printing them",
			},
			&cli.StringFlag{
				Name:  "project-id",
				Usage: "Existing project to attach the report to",
			},
			&cli.StringFlag{
				Name:  "project-name",
				Usage: "Project name for the report",
			},
			&cli.StringFlag{
				Name:  "target-reference",
				Usage: "Reference (e.g. branch) recorded on the report",
			},
			&cli.StringFlag{
				Name:    "org",
				Usage:   "Organization to run the test under",
				Sources: cli.EnvVars("SASTCTL_ORG"),
			},
			&cli.BoolFlag{
				Name:  "no-markdown",
				Usage: "Strip markdown explanations from findings",
			},
			&cli.BoolFlag{
				Name:  "sarif",
				Usage: "Print the results as SARIF JSON",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the results as JSON",
			},
			&cli.StringFlag{
				Name:  "sarif-file-output",
				Usage: "Write the results as SARIF JSON to this file, regardless of the display mode",
			},
			&cli.StringFlag{
				Name:  "json-file-output",
				Usage: "Write the results as JSON to this file, regardless of the display mode",
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "Base URL of the analysis service",
				Sources: cli.EnvVars("SASTCTL_API"),
			},
		},
	}
}

func (r *runner) action(ctx context.Context, c *cli.Command) error {
	log.SetLevel(c.String("log-level"), r.logE)
	fs := afero.NewOsFs()

	cfg := &config.Config{}
	cfgPath, err := config.NewFinder(fs).Find(c.String("config"))
	if err != nil {
		return fmt.Errorf("find a configuration file: %w", err)
	}
	if err := config.NewReader(fs).Read(cfg, cfgPath); err != nil {
		return fmt.Errorf("read a configuration file: %w", err)
	}

	endpoint := c.String("endpoint")
	if endpoint == "" {
		endpoint = cfg.Endpoint
	}
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	org := c.String("org")
	if org == "" {
		org = cfg.Org
	}
	tokenEnv := cfg.TokenEnv
	if tokenEnv == "" {
		tokenEnv = "SASTCTL_TOKEN"
	}

	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	client := api.New(ctx, endpoint, os.Getenv(tokenEnv), cfg.Org)
	ctrl := test.New(client, api.NewAnalyzer(client, fs), client, fs, &test.Param{
		Paths:           paths,
		Org:             org,
		Report:          c.Bool("report"),
		ProjectID:       c.String("project-id"),
		ProjectName:     c.String("project-name"),
		TargetRef:       c.String("target-reference"),
		NoMarkdown:      c.Bool("no-markdown"),
		Sarif:           c.Bool("sarif"),
		JSON:            c.Bool("json"),
		SarifFileOutput: c.String("sarif-file-output"),
		JSONFileOutput:  c.String("json-file-output"),
	})

	result, err := ctrl.Test(ctx, r.logE)
	if err != nil {
		return err //nolint:wrapcheck
	}
	fmt.Fprintln(r.stdout, result.Readable)
	if result.Kind == test.KindIssuesFound {
		return test.ErrIssuesFound //nolint:wrapcheck
	}
	return nil
}
