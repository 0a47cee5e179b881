package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/maze-game/api"
	"github.com/wricardo/maze-game/game/config"
	"github.com/wricardo/maze-game/game/engine"
	"github.com/wricardo/maze-game/game/scoreboard"
	"github.com/wricardo/maze-game/game/service"
	"github.com/wricardo/maze-game/game/session"
)

func startServer(t *testing.T) (*httptest.Server, service.GameService) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	dir := t.TempDir()
	data, err := json.Marshal(engine.GameConfig{Name: "classic", Description: "10x10", Size: 10})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "classic.json"), data, 0o644))

	configs, err := config.NewManager(dir)
	require.NoError(t, err)
	store, err := scoreboard.NewFileStore(t.TempDir(), 10)
	require.NoError(t, err)

	svc := service.NewGameService(session.NewManager(session.WithLogger(log)), configs,
		service.WithScoreStore(store), service.WithLogger(log))
	server := httptest.NewServer(api.NewServer(svc, nil, log))
	t.Cleanup(server.Close)
	return server, svc
}

func quiet() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRun(t *testing.T) {
	server, svc := startServer(t)

	for _, strategy := range []string{"dfs", "wall"} {
		t.Run(strategy, func(t *testing.T) {
			c := NewClient(server.URL)
			solved, err := run(context.Background(), c, options{
				configID: "classic",
				strategy: strategy,
				attempts: 2,
				maxMoves: 1000,
				fresh:    true,
			}, quiet())
			require.NoError(t, err)
			assert.Equal(t, 2, solved)

			state, err := c.GetState(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 2, state.GameNumber)
			assert.True(t, state.GameOver)
		})
	}

	records, err := svc.ListScores(context.Background(), 10, 10)
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestRun_ContinueSession(t *testing.T) {
	server, svc := startServer(t)
	info, err := svc.CreateSession(context.Background(), "classic")
	require.NoError(t, err)

	c := NewClient(server.URL)
	solved, err := run(context.Background(), c, options{
		session:  info.ID,
		strategy: "wall",
		attempts: 1,
		maxMoves: 1000,
	}, quiet())
	require.NoError(t, err)
	assert.Equal(t, 1, solved)
	assert.Equal(t, info.ID, c.sessionID)
}

func TestRun_MoveLimit(t *testing.T) {
	server, _ := startServer(t)

	solved, err := run(context.Background(), NewClient(server.URL), options{
		configID: "classic",
		strategy: "dfs",
		attempts: 1,
		maxMoves: 3,
	}, quiet())
	require.NoError(t, err)
	assert.Zero(t, solved)
}

func TestRun_Errors(t *testing.T) {
	server, _ := startServer(t)
	c := NewClient(server.URL)

	_, err := run(context.Background(), c, options{strategy: "teleport", attempts: 1}, quiet())
	assert.ErrorContains(t, err, "unknown strategy")

	_, err = run(context.Background(), c, options{session: "zzzz", strategy: "dfs", attempts: 1}, quiet())
	assert.ErrorContains(t, err, "session not found")

	_, err = run(context.Background(), c, options{configID: "missing", strategy: "dfs", attempts: 1}, quiet())
	assert.Error(t, err)
}
