package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/maze-game/game/service"
)

const playHelp = `Commands: w/a/s/d or up/down/left/right to move,
p toggles the route, h the hint, b the breadcrumbs,
n [size] new maze, r restart, ? help, q quit`

var keyDirections = map[string]string{
	"w": "up",
	"s": "down",
	"a": "left",
	"d": "right",
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "play a maze in the terminal",
		ArgsUsage: "[config_id]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, err := loggerFrom(cmd)
			if err != nil {
				return err
			}
			// Keep info logs out of the way of the board.
			if !cmd.Bool("debug") {
				log.SetLevel(logrus.WarnLevel)
			}

			svc, err := newServices(ctx, settingsFrom(cmd), log)
			if err != nil {
				return err
			}
			defer svc.Close()

			root := cmd.Root()
			return play(ctx, svc.game, cmd.Args().First(), root.Reader, root.Writer)
		},
	}
}

// play runs one terminal session, reading a command per line from in until
// q or end of input.
func play(ctx context.Context, svc service.GameService, configID string, in io.Reader, out io.Writer) error {
	info, err := svc.CreateSession(ctx, configID)
	if err != nil {
		return err
	}
	id := info.ID

	fmt.Fprintf(out, "%s (%dx%d)\n%s\n%s\n\n", info.ConfigName, info.GameState.Size, info.GameState.Size,
		info.GameState.Message, playHelp)
	if err := drawBoard(ctx, svc, id, out); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		fields := strings.Fields(strings.ToLower(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		var msg string
		switch word := fields[0]; word {
		case "q", "quit", "exit":
			fmt.Fprintln(out, "Bye!")
			return nil
		case "?", "help":
			fmt.Fprintln(out, playHelp)
			continue
		case "r", "restart":
			if _, err := svc.Reset(ctx, id); err != nil {
				return err
			}
			msg = "Back at the start."
		case "n", "new":
			size := 0
			if len(fields) > 1 {
				if size, err = strconv.Atoi(fields[1]); err != nil {
					fmt.Fprintf(out, "Not a size: %s\n", fields[1])
					continue
				}
			}
			state, err := svc.NewGame(ctx, id, size)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			msg = fmt.Sprintf("New %dx%d maze.", state.Size, state.Size)
		case "p", "h", "b":
			if msg, err = toggleOverlay(ctx, svc, id, word); err != nil {
				return err
			}
		default:
			dir := word
			if d, ok := keyDirections[word]; ok {
				dir = d
			}
			result, err := svc.Move(ctx, id, dir, false)
			if err != nil {
				return err
			}
			msg = result.Message
		}

		if err := drawBoard(ctx, svc, id, out); err != nil {
			return err
		}
		if msg != "" {
			fmt.Fprintln(out, msg)
		}
	}
}

func toggleOverlay(ctx context.Context, svc service.GameService, id, key string) (string, error) {
	state, err := svc.GetGameState(ctx, id)
	if err != nil {
		return "", err
	}
	opts := state.Overlay
	var name string
	var on bool
	switch key {
	case "p":
		opts.ShowPath = !opts.ShowPath
		name, on = "Route", opts.ShowPath
	case "h":
		opts.ShowHint = !opts.ShowHint
		name, on = "Hint", opts.ShowHint
	case "b":
		opts.ShowBreadcrumbs = !opts.ShowBreadcrumbs
		name, on = "Breadcrumbs", opts.ShowBreadcrumbs
	}
	if _, err := svc.SetOverlay(ctx, id, opts); err != nil {
		return "", err
	}
	if on {
		return name + " on.", nil
	}
	return name + " off.", nil
}

func drawBoard(ctx context.Context, svc service.GameService, id string, out io.Writer) error {
	board, err := svc.RenderGame(ctx, id)
	if err != nil {
		return err
	}
	state, err := svc.GetGameState(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprint(out, board)
	fmt.Fprintf(out, "Position %s  Score %d  Moves %d\n", state.PlayerPos, state.Score, state.CurrentMovesCount)
	if state.GameOver {
		fmt.Fprintln(out, "Solved! n for a new maze, r to walk it again, q to quit.")
	}
	return nil
}
