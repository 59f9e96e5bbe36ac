package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/vchauGIITHUB/murder-house/internal/api"
	"github.com/vchauGIITHUB/murder-house/internal/config"
	"github.com/vchauGIITHUB/murder-house/internal/game"
	staticserver "github.com/vchauGIITHUB/murder-house/static"
)

const version = "v1.2.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Murder House - hidden-role party game server

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                       Port to listen on (default: 8080)
  PUBLIC_URL                 Externally reachable base URL, used for the join QR
  GM_PIN                     Game-master unlock pin (default: 1313)
  GHOST_EVENT_INTERVAL       Rounds between ghost event resolutions (default: 3)
  KILLER_ADVANTAGE_INTERVAL  Every Nth round grants the Killer an extra move (default: 4)
  KILLER_ADVANTAGE_ENABLED   Enable killer advantage rounds (default: false)
  COMPANION_LOCK_ROUNDS      Clue cooldown after repeated pairings (default: 2)
  SECRET_SENTENCE            Pre-seed the clue sentence at startup (optional)

Visit http://localhost:8080 after starting the server.
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Murder House %s\n", version)
		return
	}

	// .env is optional; real env always wins.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zerologlog.Info().
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("dur", time.Since(start)).
			Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	engine := game.NewEngine(game.Settings{
		GMPin:                   cfg.GMPin,
		GhostEventInterval:      cfg.GhostEventInterval,
		KillerAdvantageInterval: cfg.KillerAdvantageInterval,
		KillerAdvantageEnabled:  cfg.KillerAdvantageEnabled,
		CompanionLockRounds:     cfg.CompanionLockRounds,
	}, zerologlog.Logger)

	if cfg.SecretSentence != "" {
		if _, err := engine.GenerateClues(cfg.SecretSentence); err != nil {
			zerologlog.Warn().Err(err).Msg("could not seed clue sentence")
		}
	}

	api.New(engine, cfg.PublicURL, zerologlog.Logger).Mount(r)

	// Serve frontend for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	log.Printf("listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
