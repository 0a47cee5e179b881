// Command solver plays mazes against a running server through the REST API,
// the way an agent would: it only looks at the walls of the cell it stands in
// and never asks for the shortest path. It reports moves and score for each
// attempt and exits non-zero when no attempt reaches the goal.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/maze-game/game/engine"
	"github.com/wricardo/maze-game/game/service"
)

// Client talks to one session of the game server.
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

// CreateSession starts a session and remembers its ID.
func (c *Client) CreateSession(ctx context.Context, configID string) (*engine.GameState, error) {
	var session service.SessionInfo
	body := map[string]string{"config_id": configID}
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = session.ID
	return session.GameState, nil
}

// UseSession resumes an existing session.
func (c *Client) UseSession(ctx context.Context, id string) (*engine.GameState, error) {
	c.sessionID = id
	return c.GetState(ctx)
}

func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

// Move tries one step. A blocked step is not an error.
func (c *Client) Move(ctx context.Context, direction string) (*service.MoveResult, error) {
	var result service.MoveResult
	body := map[string]string{"direction": direction}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/move"), body, &result); err != nil {
		return nil, fmt.Errorf("move: %w", err)
	}
	return &result, nil
}

func (c *Client) Reset(ctx context.Context) (*engine.GameState, error) {
	var resp struct {
		State *engine.GameState `json:"state"`
	}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/reset"), nil, &resp); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	return resp.State, nil
}

func (c *Client) NewGame(ctx context.Context) (*engine.GameState, error) {
	var resp struct {
		State *engine.GameState `json:"state"`
	}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/new-game"), map[string]int{}, &resp); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	return resp.State, nil
}

// Attempt is the outcome of one run through a maze.
type Attempt struct {
	Moves   int
	Blocked int
	Score   int
	Solved  bool
}

// errStuck reports a strategy that ran out of moves before the goal.
var errStuck = errors.New("strategy has no move left")

// solve plays state's maze with strategy until the goal or maxMoves.
func solve(ctx context.Context, c *Client, state *engine.GameState, strategy Strategy, maxMoves int, delay time.Duration, log logrus.FieldLogger) (Attempt, error) {
	var a Attempt
	for !state.GameOver && a.Moves < maxMoves {
		dir, ok := strategy.Next(state)
		if !ok {
			return a, errStuck
		}

		result, err := c.Move(ctx, dir.String())
		if err != nil {
			return a, err
		}
		a.Moves++
		if !result.Success {
			a.Blocked++
		}
		state = result.GameState

		if a.Moves%50 == 0 {
			log.WithFields(logrus.Fields{
				"pos":   state.PlayerPos.String(),
				"score": state.Score,
				"moves": a.Moves,
			}).Debug("progress")
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	a.Score = state.Score
	a.Solved = state.GameOver
	return a, nil
}

type options struct {
	configID string
	session  string
	strategy string
	attempts int
	maxMoves int
	fresh    bool
	delay    time.Duration
}

// run plays opts.attempts runs and returns how many reached the goal.
func run(ctx context.Context, c *Client, opts options, log logrus.FieldLogger) (int, error) {
	strategy, ok := NewStrategy(opts.strategy)
	if !ok {
		return 0, fmt.Errorf("unknown strategy %q (use dfs or wall)", opts.strategy)
	}

	var state *engine.GameState
	var err error
	if opts.session != "" {
		state, err = c.UseSession(ctx, opts.session)
	} else {
		state, err = c.CreateSession(ctx, opts.configID)
	}
	if err != nil {
		return 0, err
	}
	log.WithFields(logrus.Fields{
		"session":  c.sessionID,
		"size":     state.Size,
		"strategy": strategy.Name(),
	}).Info("playing")

	solved := 0
	for i := 1; i <= opts.attempts; i++ {
		if i > 1 && opts.fresh {
			state, err = c.NewGame(ctx)
		} else {
			state, err = c.Reset(ctx)
		}
		if err != nil {
			return solved, err
		}
		strategy.Reset()

		a, err := solve(ctx, c, state, strategy, opts.maxMoves, opts.delay, log)
		fields := logrus.Fields{
			"attempt": i,
			"moves":   a.Moves,
			"blocked": a.Blocked,
			"score":   a.Score,
		}
		if err != nil && !errors.Is(err, errStuck) {
			return solved, err
		}
		if a.Solved {
			solved++
			log.WithFields(fields).Info("solved")
		} else {
			log.WithFields(fields).Warn("not solved")
		}
	}
	return solved, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "solver",
		Usage: "play mazes through the REST API without looking at the route",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL", Sources: cli.EnvVars("MAZE_API_URL")},
			&cli.StringFlag{Name: "config", Usage: "preset config_id for a new session"},
			&cli.StringFlag{Name: "continue", Usage: "play an existing session by ID"},
			&cli.StringFlag{Name: "strategy", Value: "dfs", Usage: "dfs or wall"},
			&cli.IntFlag{Name: "attempts", Value: 1},
			&cli.IntFlag{Name: "max-moves", Value: 3000, Usage: "moves per attempt"},
			&cli.BoolFlag{Name: "fresh", Usage: "new maze for every attempt instead of a reset"},
			&cli.DurationFlag{Name: "delay", Usage: "pause between moves"},
			&cli.BoolFlag{Name: "v", Usage: "verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logrus.New()
			if cmd.Bool("v") {
				log.SetLevel(logrus.DebugLevel)
			}

			opts := options{
				configID: cmd.String("config"),
				session:  cmd.String("continue"),
				strategy: cmd.String("strategy"),
				attempts: cmd.Int("attempts"),
				maxMoves: cmd.Int("max-moves"),
				fresh:    cmd.Bool("fresh"),
				delay:    cmd.Duration("delay"),
			}
			solved, err := run(ctx, NewClient(cmd.String("url")), opts, log)
			if err != nil {
				return err
			}
			if solved == 0 {
				return cli.Exit(fmt.Sprintf("no attempt reached the goal in %d", opts.attempts), 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("solver failed")
	}
}
