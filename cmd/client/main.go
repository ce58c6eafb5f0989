package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cbodonnell/tetris/client/game"
	"github.com/cbodonnell/tetris/client/network"
	"github.com/cbodonnell/tetris/client/scenes"
	"github.com/cbodonnell/tetris/client/settings"
	"github.com/cbodonnell/tetris/pkg/audio"
	tetris "github.com/cbodonnell/tetris/pkg/game"
	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/cbodonnell/tetris/pkg/particles"
	"github.com/cbodonnell/tetris/pkg/version"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	apiURL := flag.String("api-url", network.DefaultAPIURL, "High score API URL")
	live := flag.Bool("live", true, "Subscribe to live leaderboard updates")
	debug := flag.Bool("debug", false, "Show the debug overlay")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting client version %s", version.Get())

	userSettings := settings.Open()
	saved := userSettings.Get()

	audioEngine := audio.NewEngine(audio.NewEngineOptions{
		Volume: saved.Volume,
		Muted:  saved.Muted,
	})
	defer audioEngine.Close()

	networkManager := network.NewNetworkManager(network.NewNetworkManagerOptions{
		APIURL: *apiURL,
		Live:   *live,
	})
	networkManager.Start(context.Background())
	defer networkManager.Stop()

	session := scenes.NewSession(scenes.NewSessionOptions{
		Loop:      tetris.NewLoop(tetris.NewLoopOptions{}),
		Particles: particles.NewSystem(nil),
		Audio:     audioEngine,
		Settings:  userSettings,
		Scores:    networkManager,
	})

	g, err := game.NewGame(game.NewGameOptions{
		Debug:   *debug,
		Session: session,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create game: %v", err))
	}

	ebiten.SetWindowSize(scenes.ScreenWidth, scenes.ScreenHeight)
	ebiten.SetWindowTitle("Ultimate Tetris")
	if err := ebiten.RunGame(g); err != nil {
		panic(fmt.Sprintf("Failed to run game: %v", err))
	}
}
