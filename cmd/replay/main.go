package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const (
	treeKey    = "tree"
	verboseKey = "verbose"
)

func main() {
	cmd := &cli.Command{
		Name:      "replay",
		Usage:     "Replay keyed list scenarios against the noop host and print the host calls",
		ArgsUsage: "scenario.yaml...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  treeKey,
				Usage: "Print the host tree after the last step",
			},
			&cli.BoolFlag{
				Name:  verboseKey,
				Usage: "Log reconciler and host activity to stderr",
			},
		},
		Action: replay,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func replay(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return errors.New("no scenario files given")
	}

	level := slog.LevelWarn
	if cmd.Bool(verboseKey) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	for _, path := range paths {
		sc, err := LoadScenario(path)
		if err != nil {
			return err
		}
		results, err := sc.Run(logger)
		if err != nil {
			return fmt.Errorf("%s: %w", sc.Name, err)
		}
		report(os.Stdout, sc, results, cmd.Bool(treeKey))
	}
	return nil
}

func report(w io.Writer, sc *Scenario, results []StepResult, tree bool) {
	fmt.Fprintf(w, "== %s\n", sc.Name)

	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"step", "keys", "priority", "op", "parent", "node", "detail"})
	tbl.SetAutoWrapText(false)
	tbl.SetAutoMergeCells(true)

	ops, passes := 0, 0
	for i, res := range results {
		step := humanize.Ordinal(i + 1)
		keys := strings.Join(res.Keys, " ")
		if len(res.Ops) == 0 {
			tbl.Append([]string{step, keys, res.Priority.String(), "-", "", "", ""})
		}
		for _, op := range res.Ops {
			detail := op.Detail
			if op.Before != "" {
				detail = "before " + op.Before
			}
			tbl.Append([]string{step, keys, res.Priority.String(), op.Kind.String(), op.Parent, op.Node, detail})
		}
		ops += len(res.Ops)
		passes += res.Passes
	}
	tbl.Render()

	live := 0
	if len(results) > 0 {
		live = results[len(results)-1].Live
	}
	fmt.Fprintf(w, "%s steps, %s host calls, %s render passes, %s live nodes\n",
		humanize.Comma(int64(len(results))),
		humanize.Comma(int64(ops)),
		humanize.Comma(int64(passes)),
		humanize.Comma(int64(live)),
	)
	if tree && len(results) > 0 {
		fmt.Fprintln(w, results[len(results)-1].Tree)
	}
}
