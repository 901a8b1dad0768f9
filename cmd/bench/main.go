// Package main is a command line benchmark runner for the algorithm catalog.
//
// It drives the same harness as the server without any transport: pick an
// algorithm, choose input sizes, and read the timing summary on stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/algoviz/runbox/bench"
	"github.com/algoviz/runbox/catalog"
)

func main() {
	cmd := &cli.Command{
		Name:      "runbox-bench",
		Usage:     "benchmark catalog algorithms without starting a server",
		ArgsUsage: "<algorithm-id>",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{
				Name:  "sizes",
				Usage: "input sizes to measure",
			},
			&cli.IntFlag{
				Name:  "warmup",
				Usage: "unmeasured runs per size before timing starts",
				Value: 3,
			},
			&cli.DurationFlag{
				Name:  "min-sample-time",
				Usage: "minimum cumulative measured time per size",
				Value: 100 * time.Millisecond,
			},
			&cli.IntFlag{
				Name:  "max-iterations",
				Usage: "iteration cap per size",
				Value: 10000,
			},
			&cli.BoolFlag{
				Name:  "list",
				Usage: "list catalog algorithms and exit",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "emit the summary as JSON instead of a table",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log each measured point",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	algs := catalog.New()

	if cmd.Bool("list") {
		printAlgorithms(algs)
		return nil
	}

	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("missing algorithm id, try --list")
	}
	alg, ok := algs.Lookup(id)
	if !ok {
		return fmt.Errorf("unknown algorithm %q, try --list", id)
	}

	var sizes []int
	for _, v := range cmd.IntSlice("sizes") {
		sizes = append(sizes, int(v))
	}
	if len(sizes) == 0 {
		sizes = []int{64, 128, 256, 512}
	}

	logger := zap.NewNop()
	if cmd.Bool("verbose") {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
	}

	harness := bench.New(logger, bench.Config{
		Warmup:        int(cmd.Int("warmup")),
		MinSampleTime: cmd.Duration("min-sample-time"),
		MaxIterations: int(cmd.Int("max-iterations")),
	})

	started := time.Now()
	points, err := harness.Run(ctx, bench.Spec{
		Label: alg.ID,
		Sizes: sizes,
		Gen:   alg.GenInput,
		Fn:    alg.Run,
	})
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}

	if cmd.Bool("json") {
		return printJSON(alg, points)
	}
	printSummary(alg, points, time.Since(started))
	return nil
}

func printAlgorithms(algs *catalog.Registry) {
	for _, info := range algs.List() {
		marker := " "
		if info.Traceable {
			marker = color.GreenString("*")
		}
		fmt.Printf("%s %-16s %-10s %s\n", marker, info.ID, info.Category,
			color.New(color.Faint).Sprint(info.Complexity))
	}
	fmt.Println("\n* supports instrumented traces")
}

func printSummary(alg *catalog.Algorithm, points []bench.Point, elapsed time.Duration) {
	color.New(color.FgCyan, color.Bold).Printf("%s", alg.Name)
	if alg.Complexity != "" {
		fmt.Printf("  %s", color.YellowString(alg.Complexity))
	}
	fmt.Println()

	fmt.Printf("%10s %12s %14s %12s\n", "size", "iterations", "total", "avg")
	for _, p := range points {
		fmt.Printf("%10d %12d %14s %s\n",
			p.Size, p.Iterations, formatDuration(p.Total),
			color.GreenString("%12s", formatDuration(p.Average())))
	}
	fmt.Printf("\nfinished in %s\n", elapsed.Round(time.Millisecond))
}

func printJSON(alg *catalog.Algorithm, points []bench.Point) error {
	type point struct {
		Size       int     `json:"size"`
		Iterations int     `json:"iterations"`
		TotalMs    float64 `json:"totalMs"`
		AverageMs  float64 `json:"averageMs"`
	}
	out := struct {
		Algorithm string  `json:"algorithm"`
		Points    []point `json:"points"`
	}{Algorithm: alg.ID}

	for _, p := range points {
		out.Points = append(out.Points, point{
			Size:       p.Size,
			Iterations: p.Iterations,
			TotalMs:    float64(p.Total) / float64(time.Millisecond),
			AverageMs:  float64(p.Average()) / float64(time.Millisecond),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.3fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.1fµs", float64(d)/float64(time.Microsecond))
	}
}
