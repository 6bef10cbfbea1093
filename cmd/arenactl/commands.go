package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/pavanmanishd/fixedarena"
	"github.com/pavanmanishd/fixedarena/internal/replay"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "replay scenario files",
	ArgsUsage: "FILE...",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() == 0 {
			return errors.New("run: no scenario files given")
		}
		scenarios := make([]*replay.Scenario, 0, ctx.NArg())
		for _, name := range ctx.Args().Slice() {
			s, err := replay.LoadFile(name)
			if err != nil {
				return err
			}
			scenarios = append(scenarios, s)
		}
		return replayAll(ctx, scenarios)
	},
}

var demoCommand = &cli.Command{
	Name:  "demo",
	Usage: "replay the built-in scenarios",
	Action: func(ctx *cli.Context) error {
		scenarios, err := replay.Builtin()
		if err != nil {
			return err
		}
		return replayAll(ctx, scenarios)
	},
}

var layoutCommand = &cli.Command{
	Name:      "layout",
	Usage:     "allocate on a fresh arena and print the block chain",
	ArgsUsage: "SIZE[@ALIGN]|free:N ...",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "kind",
			Usage: "allocator: bump, tagging or recycling",
			Value: string(replay.KindRecycling),
		},
		&cli.IntFlag{
			Name:    "size",
			Usage:   "arena size in bytes",
			Value:   256,
			EnvVars: []string{"ARENACTL_ARENA_SIZE"},
		},
	},
	Action: func(ctx *cli.Context) error {
		kind, err := replay.ParseKind(ctx.String("kind"))
		if err != nil {
			return err
		}
		s, err := parseLayout(kind, ctx.Int("size"), ctx.Args().Slice())
		if err != nil {
			return err
		}
		return replayAll(ctx, []*replay.Scenario{s})
	},
}

// parseLayout turns layout arguments into an ad-hoc scenario. Allocations
// are labelled by their position among the allocation arguments.
func parseLayout(kind replay.Kind, size int, args []string) (*replay.Scenario, error) {
	s := &replay.Scenario{Name: "layout", Allocator: kind, Arena: size}
	var allocs int
	for _, arg := range args {
		if n, ok := strings.CutPrefix(arg, "free:"); ok {
			idx, err := strconv.Atoi(n)
			if err != nil || idx < 0 || idx >= allocs {
				return nil, errors.Newf("layout: bad release %q", arg)
			}
			s.Steps = append(s.Steps, replay.Step{Release: strconv.Itoa(idx)})
			continue
		}
		sizeArg, alignArg, hasAlign := strings.Cut(arg, "@")
		step := replay.Step{Alloc: strconv.Itoa(allocs)}
		var err error
		if step.Size, err = strconv.Atoi(sizeArg); err != nil {
			return nil, errors.Wrapf(err, "layout: bad size %q", arg)
		}
		if hasAlign {
			if step.Align, err = strconv.Atoi(alignArg); err != nil {
				return nil, errors.Wrapf(err, "layout: bad alignment %q", arg)
			}
		}
		s.Steps = append(s.Steps, step)
		allocs++
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func replayAll(ctx *cli.Context, scenarios []*replay.Scenario) error {
	logger, err := newLogger(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	w := ctx.App.Writer
	var failed int
	for _, s := range scenarios {
		res, err := replay.Run(s, logger)
		if res != nil {
			printResult(w, res)
		}
		if err != nil {
			failed++
			if errors.Is(err, replay.ErrExpectation) {
				fmt.Fprintf(w, "%s %s\n", color.RedString("FAIL"), s.Name)
				for _, f := range res.Failures {
					fmt.Fprintf(w, "  %v\n", f)
				}
				fmt.Fprintln(w)
				continue
			}
			fmt.Fprintf(w, "%s %s: %v\n\n", color.RedString("FAIL"), s.Name, err)
			continue
		}
		fmt.Fprintf(w, "%s %s\n\n", color.GreenString("PASS"), s.Name)
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d scenarios failed", failed, len(scenarios)), 1)
	}
	return nil
}

func printResult(w io.Writer, res *replay.Result) {
	s := res.Scenario
	fmt.Fprintf(w, "%s (%s, %s arena)\n", color.New(color.Bold).Sprint(s.Name), s.Allocator, humanize.IBytes(uint64(s.Arena)))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  STEP\tOP\tLABEL\tOFFSET\tLENGTH\tRESULT")
	for _, st := range res.Steps {
		outcome := "ok"
		if st.Err != nil {
			outcome = errors.Cause(st.Err).Error()
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%d\t%s\n", st.Index, st.Op, st.Label, offset(st.Offset), st.Length, outcome)
	}
	tw.Flush()

	if len(res.Blocks) > 0 {
		printBlocks(w, res.Blocks)
	}
	fmt.Fprintf(w, "  %s\n", res.Metrics)
}

func printBlocks(w io.Writer, blocks []fixedarena.Block) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  BLOCK\tOFFSET\tLENGTH\tSTATE")
	for i, b := range blocks {
		state := "in use"
		if b.Free {
			state = color.YellowString("free")
		}
		fmt.Fprintf(tw, "  %d\t%d\t%d\t%s\n", i, b.Offset, b.Length, state)
	}
	tw.Flush()
}

func offset(off int) string {
	if off < 0 {
		return "-"
	}
	return strconv.Itoa(off)
}
