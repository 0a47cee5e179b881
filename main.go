// Command maze-game serves, plays and generates perfect mazes.
//
// Commands:
//  1. "serve" – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play" – plays a maze in the terminal, one command per line
//  4. "generate" – prints a single maze as ASCII art
//
// Flags control host/port, config directory, score storage, logging,
// and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/maze-game/api"
	"github.com/wricardo/maze-game/game/config"
	"github.com/wricardo/maze-game/game/engine"
	"github.com/wricardo/maze-game/game/maze"
	"github.com/wricardo/maze-game/game/scoreboard"
	"github.com/wricardo/maze-game/game/service"
	"github.com/wricardo/maze-game/game/session"
	"github.com/wricardo/maze-game/transport/mcp"
	"github.com/wricardo/maze-game/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Maze Game Server"
)

const (
	maxScoresPerSize = 100
	cleanupInterval  = time.Hour
)

// settings holds the flag values shared by every command that builds services.
type settings struct {
	configDir     string
	scoresDir     string
	redisAddr     string
	redisPassword string
	redisDB       int
	sessionTTL    time.Duration
}

func settingsFrom(cmd *cli.Command) settings {
	return settings{
		configDir:     cmd.String("config-dir"),
		scoresDir:     cmd.String("scores-dir"),
		redisAddr:     cmd.String("redis-addr"),
		redisPassword: cmd.String("redis-password"),
		redisDB:       cmd.Int("redis-db"),
		sessionTTL:    cmd.Duration("session-ttl"),
	}
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("error loading .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		logrus.WithError(err).Fatal("maze-game failed")
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "maze-game",
		Usage:   "walk perfect mazes over REST, WebSocket, MCP or the terminal",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing maze presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "debug logging with caller information",
			},
			&cli.StringFlag{
				Name:    "scores-dir",
				Value:   "scores",
				Usage:   "directory for the file high-score store",
				Sources: cli.EnvVars("SCORES_DIR"),
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "keep high scores in Redis at this address instead of files",
				Sources: cli.EnvVars("REDIS_ADDR"),
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Sources: cli.EnvVars("REDIS_PASSWORD"),
			},
			&cli.IntFlag{
				Name:    "redis-db",
				Sources: cli.EnvVars("REDIS_DB"),
			},
			&cli.DurationFlag{
				Name:  "session-ttl",
				Value: 24 * time.Hour,
				Usage: "drop sessions idle for longer than this",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			playCommand(),
			generateCommand(),
		},
		DefaultCommand: "serve",
	}
}

// newLogger builds the process logger from --log-level and --debug.
func newLogger(level string, debug bool) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if debug {
		lvl = logrus.DebugLevel
		log.SetReportCaller(true)
	}
	log.SetLevel(lvl)
	return log, nil
}

func loggerFrom(cmd *cli.Command) (*logrus.Logger, error) {
	return newLogger(cmd.String("log-level"), cmd.Bool("debug"))
}

// services bundles the wired game stack.
type services struct {
	game     service.GameService
	sessions *session.Manager
	scores   scoreboard.Store
}

func (s *services) Close() error {
	if s.scores == nil {
		return nil
	}
	return s.scores.Close()
}

// newServices wires config, session, score store and game service.
func newServices(ctx context.Context, st settings, log logrus.FieldLogger) (*services, error) {
	configManager, err := config.NewManager(st.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	scores, err := newScoreStore(ctx, st, log)
	if err != nil {
		return nil, err
	}

	sessionManager := session.NewManager(session.WithLogger(log))
	gameService := service.NewGameService(sessionManager, configManager,
		service.WithScoreStore(scores),
		service.WithLogger(log),
	)

	return &services{
		game:     gameService,
		sessions: sessionManager,
		scores:   scores,
	}, nil
}

func newScoreStore(ctx context.Context, st settings, log logrus.FieldLogger) (scoreboard.Store, error) {
	if st.redisAddr != "" {
		client, err := scoreboard.DialRedis(ctx, st.redisAddr, st.redisPassword, st.redisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.WithField("addr", st.redisAddr).Info("high scores stored in redis")
		return scoreboard.NewRedisStore(client, "maze", maxScoresPerSize), nil
	}

	store, err := scoreboard.NewFileStore(st.scoresDir, maxScoresPerSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create score store: %w", err)
	}
	log.WithField("dir", st.scoresDir).Info("high scores stored in files")
	return store, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server with REST API, WebSocket and /mcp endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Sources: cli.EnvVars("HOST")},
			&cli.IntFlag{Name: "port", Value: 8080, Sources: cli.EnvVars("PORT")},
			&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, err := loggerFrom(cmd)
			if err != nil {
				return err
			}
			st := settingsFrom(cmd)
			svc, err := newServices(ctx, st, log)
			if err != nil {
				return err
			}
			defer svc.Close()

			go svc.sessions.RunCleanup(ctx, cleanupInterval, st.sessionTTL)

			addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
			return runHTTPServer(ctx, svc.game, addr, ngrokSettings{
				enabled: cmd.Bool("ngrok"),
				auth:    cmd.String("ngrok-auth"),
				domain:  cmd.String("ngrok-domain"),
			}, log)
		},
	}
}

type ngrokSettings struct {
	enabled bool
	auth    string
	domain  string
}

// newRouter mounts the REST API at the root and the MCP proxy at /mcp.
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))
	return mainRouter
}

// mcpHandler answers one JSON-RPC message per POST.
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runHTTPServer serves until ctx is cancelled, then shuts down gracefully.
func runHTTPServer(ctx context.Context, gameService service.GameService, addr string, ng ngrokSettings, log logrus.FieldLogger) error {
	// Stops the hub and the tunnel when the listener fails, not only on signal.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	apiServer := api.NewServer(gameService, hub, log)
	mcpClient := mcp.NewClient("http://" + addr)
	mainRouter := newRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	errc := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.WithFields(logrus.Fields{
			"addr":      addr,
			"api":       "http://" + addr + "/api",
			"websocket": "ws://" + addr + "/ws?session=<session_id>",
			"mcp":       "http://" + addr + "/mcp",
		}).Infof("%s v%s listening", AppName, Version)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if ng.enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveTunnel(ctx, mainRouter, ng, log)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case runErr = <-errc:
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info("server stopped")
	return runErr
}

// serveTunnel is replaced in tests.
var serveTunnel = runNgrok

func runNgrok(ctx context.Context, handler http.Handler, ng ngrokSettings, log logrus.FieldLogger) {
	if ng.auth == "" {
		log.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if ng.domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(ng.domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(ng.auth))
	if err != nil {
		log.WithError(err).Error("failed to start ngrok tunnel")
		return
	}
	defer tun.Close()

	url := tun.URL()
	log.WithFields(logrus.Fields{
		"api": url + "/api",
		"mcp": url + "/mcp",
	}).Infof("ngrok tunnel established: %s", url)

	go func() {
		<-ctx.Done()
		tun.Close()
	}()
	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.WithError(err).Warn("ngrok server error")
	}
	log.Info("ngrok tunnel closed")
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "run an MCP stdio server backed by a running API or an internal one",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   "http://localhost:8080",
				Usage:   "API to reuse when it answers",
				Sources: cli.EnvVars("MAZE_API_URL"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, err := loggerFrom(cmd)
			if err != nil {
				return err
			}

			baseURL := cmd.String("api-url")
			if !apiAvailable(ctx, baseURL) {
				log.WithField("url", baseURL).Info("no external API server found, starting internal HTTP server")
				svc, err := newServices(ctx, settingsFrom(cmd), log)
				if err != nil {
					return err
				}
				defer svc.Close()

				baseURL, err = startInternalServer(ctx, svc.game, log)
				if err != nil {
					return err
				}
			}

			log.WithField("api", baseURL).Info("MCP stdio server ready")
			return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
		},
	}
}

// apiAvailable probes baseURL/api/health.
func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

// startInternalServer serves the API on a random loopback port until ctx is
// done and returns its base URL.
func startInternalServer(ctx context.Context, gameService service.GameService, log logrus.FieldLogger) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to get available port: %w", err)
	}

	httpServer := &http.Server{Handler: api.NewServer(gameService, nil, log)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("internal HTTP server error")
		}
	}()
	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	return "http://" + listener.Addr().String(), nil
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "print one maze as ASCII art",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "size", Value: 10, Usage: "side length in cells"},
			&cli.Uint64Flag{Name: "seed", Usage: "generator seed, 0 picks one from the clock"},
			&cli.BoolFlag{Name: "solve", Usage: "mark the shortest route"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return generateMaze(cmd.Root().Writer, cmd.Int("size"), cmd.Uint64("seed"), cmd.Bool("solve"))
		},
	}
}

// generateMaze carves and verifies one maze, then draws it to w.
func generateMaze(w io.Writer, size int, seed uint64, solve bool) error {
	grid, err := maze.NewGrid(size, engine.DefaultWorldSize)
	if err != nil {
		return err
	}
	maze.NewGenerator(seed).Generate(grid)
	if err := maze.Verify(grid); err != nil {
		return err
	}

	start := maze.Position{Row: 0, Col: 0}
	goal := maze.Position{Row: size - 1, Col: size - 1}

	marks := map[maze.Position]rune{}
	var route []maze.Position
	if solve {
		route = maze.FindShortestPath(grid, start, goal)
		marks = maze.PathMarks(route)
	}
	marks[start] = maze.MarkStart
	marks[goal] = maze.MarkGoal

	fmt.Fprint(w, grid.Render(marks))
	fmt.Fprintf(w, "%dx%d, %d passages, %d dead ends\n", size, size, grid.EdgeCount(), maze.DeadEnds(grid))
	if solve {
		fmt.Fprintf(w, "Route: %d moves\n", len(route)-1)
	}
	return nil
}
