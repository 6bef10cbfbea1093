// Command arenactl replays allocation scenarios against the fixedarena
// allocators and prints the resulting block layout.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var logLevelFlag = &cli.StringFlag{
	Name:    "log-level",
	Usage:   "log level (debug, info, warn, error)",
	Value:   "warn",
	EnvVars: []string{"ARENACTL_LOG_LEVEL"},
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "arenactl",
		Usage: "inspect fixed-arena allocators",
		Flags: []cli.Flag{logLevelFlag},
		Commands: []*cli.Command{
			runCommand,
			demoCommand,
			layoutCommand,
		},
	}
}

// newLogger builds the console logger selected by --log-level.
func newLogger(ctx *cli.Context) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(ctx.String(logLevelFlag.Name))
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	cfg.DisableStacktrace = true
	return cfg.Build()
}
