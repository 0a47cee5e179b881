// Command analyze prints quick, human-readable statistics about the maze
// presets in the project's configs directory. For each preset it carves a
// batch of mazes and summarizes route length, dead ends and verifier status.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/maze-game/game/config"
	"github.com/wricardo/maze-game/game/engine"
	"github.com/wricardo/maze-game/game/maze"
)

// PresetStats summarizes a batch of mazes carved for one preset.
type PresetStats struct {
	ConfigID     string
	Size         int
	Samples      int
	MeanRoute    float64 // moves from start to goal
	MinRoute     int
	MaxRoute     int
	MeanDeadEnds float64
	RouteShare   float64 // fraction of cells on the route
	Failures     int     // mazes rejected by maze.Verify
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "print maze statistics per preset",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.IntFlag{Name: "samples", Value: 100, Usage: "mazes carved per preset"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "seed for the first maze of each preset"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(cmd.Root().Writer, cmd.String("config-dir"), cmd.Int("samples"), cmd.Uint64("seed"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("analyze failed")
	}
}

func run(w io.Writer, configDir string, samples int, seed uint64) error {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return err
	}
	presets, err := manager.ListConfigs()
	if err != nil {
		return err
	}

	var stats []PresetStats
	for _, p := range presets {
		s, err := analyzePreset(p.ConfigID, p.Size, samples, seed)
		if err != nil {
			return fmt.Errorf("%s: %w", p.ConfigID, err)
		}
		stats = append(stats, s)
	}
	writeReport(w, stats)
	return nil
}

// analyzePreset carves samples mazes of the given size from one seeded
// generator, the way a session does across new games.
func analyzePreset(id string, size, samples int, seed uint64) (PresetStats, error) {
	if samples < 1 {
		return PresetStats{}, fmt.Errorf("samples must be positive, got %d", samples)
	}
	grid, err := maze.NewGrid(size, engine.DefaultWorldSize)
	if err != nil {
		return PresetStats{}, err
	}

	s := PresetStats{ConfigID: id, Size: size, Samples: samples}
	gen := maze.NewGenerator(seed)
	start := maze.Position{Row: 0, Col: 0}
	goal := maze.Position{Row: size - 1, Col: size - 1}

	var routeTotal, deadEndTotal int
	for i := 0; i < samples; i++ {
		gen.Generate(grid)
		if err := maze.Verify(grid); err != nil {
			s.Failures++
			continue
		}

		moves := len(maze.FindShortestPath(grid, start, goal)) - 1
		if s.MinRoute == 0 || moves < s.MinRoute {
			s.MinRoute = moves
		}
		if moves > s.MaxRoute {
			s.MaxRoute = moves
		}
		routeTotal += moves
		deadEndTotal += maze.DeadEnds(grid)
	}

	if ok := samples - s.Failures; ok > 0 {
		s.MeanRoute = float64(routeTotal) / float64(ok)
		s.MeanDeadEnds = float64(deadEndTotal) / float64(ok)
		s.RouteShare = (s.MeanRoute + 1) / float64(size*size)
	}
	return s, nil
}

func writeReport(w io.Writer, stats []PresetStats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRESET\tSIZE\tSAMPLES\tROUTE (mean)\tROUTE (min-max)\tDEAD ENDS\tON ROUTE\tVERIFY")
	for _, s := range stats {
		verify := "ok"
		if s.Failures > 0 {
			verify = fmt.Sprintf("%d FAILED", s.Failures)
		}
		fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%.1f\t%d-%d\t%.1f\t%.0f%%\t%s\n",
			s.ConfigID, s.Size, s.Size, s.Samples, s.MeanRoute, s.MinRoute, s.MaxRoute,
			s.MeanDeadEnds, s.RouteShare*100, verify)
	}
	tw.Flush()
}
