package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cbodonnell/tetris/pkg/api"
	"github.com/cbodonnell/tetris/pkg/highscores"
	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/cbodonnell/tetris/pkg/network"
	"github.com/cbodonnell/tetris/pkg/repositories"
	"github.com/cbodonnell/tetris/pkg/repositories/models"
	"github.com/cbodonnell/tetris/pkg/version"
	"github.com/cbodonnell/tetris/pkg/workers"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	port := flag.Int("port", 9090, "port to listen on")
	allowOrigin := flag.String("allow-origin", "*", "comma-separated list of allowed origins")
	migrationsDir := flag.String("migrations", "./migrations", "directory holding the sqlite and postgres migrations")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting high score server version %s", version.Get())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connStr := os.Getenv("TETRIS_DATABASE_URL")
	if connStr == "" {
		connStr = "file://data/tetris-highscores.json"
	}
	repository, err := repositories.Open(ctx, connStr, *migrationsDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open repository: %v", err))
	}
	defer repository.Close(ctx)

	subscriberManager := network.NewSubscriberManager()
	broadcastScoresChannelSize := 16
	broadcastScoresChan := make(chan []models.HighScore, broadcastScoresChannelSize)
	broadcastWorker := workers.NewBroadcastLeaderboardWorker(workers.NewBroadcastLeaderboardWorkerOptions{
		SubscriberManager:   subscriberManager,
		BroadcastScoresChan: broadcastScoresChan,
	})
	go broadcastWorker.Start(ctx)

	apiServerOpts := api.NewAPIServerOptions{
		Port:                *port,
		AllowedOrigins:      strings.Split(*allowOrigin, ","),
		Leaderboard:         highscores.NewLeaderboard(highscores.NewLeaderboardOptions{Repository: repository}),
		SubscriberManager:   subscriberManager,
		BroadcastScoresChan: broadcastScoresChan,
	}
	tlsCertFile := os.Getenv("TETRIS_API_TLS_CERT_FILE")
	tlsKeyFile := os.Getenv("TETRIS_API_TLS_KEY_FILE")
	if tlsCertFile != "" && tlsKeyFile != "" {
		apiServerOpts.TLS = &api.TLSConfig{
			CertFile: tlsCertFile,
			KeyFile:  tlsKeyFile,
		}
	}
	server := api.NewAPIServer(apiServerOpts)
	go server.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	sig := <-interrupt
	log.Info("Received %s, shutting down", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop server: %v", err)
	}
}
