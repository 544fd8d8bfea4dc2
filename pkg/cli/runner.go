// Package cli builds the command line interface.
package cli

import (
	"context"
	"io"

	"github.com/sastctl/sastctl/pkg/cli/test"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

type Runner struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	LDFlags *LDFlags
	LogE    *logrus.Entry
}

type LDFlags struct {
	Version string
	Commit  string
	Date    string
}

func (r *Runner) Run(ctx context.Context, args ...string) error {
	cmd := &cli.Command{
		Name:    "sastctl",
		Usage:   "Test projects with a remote static code analysis service",
		Version: r.LDFlags.Version + " (" + r.LDFlags.Commit + ")",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level",
				Sources: cli.EnvVars("SASTCTL_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name: "config",
				Aliases: []string{
					"c",
				},
				Usage:   "configuration file path",
				Sources: cli.EnvVars("SASTCTL_CONFIG"),
			},
		},
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			test.New(r.LogE, r.Stdout),
			r.newVersionCommand(),
		},
	}

	return cmd.Run(ctx, args) //nolint:wrapcheck
}
