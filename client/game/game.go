package game

import (
	"fmt"

	"github.com/cbodonnell/tetris/client/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Game implements ebiten.Game interface, which has Update, Draw and Layout methods.
type Game struct {
	// debug is a boolean value indicating whether debug mode is enabled.
	debug bool
	// session is the running game session, shown in the debug overlay.
	session *scenes.Session
	// scene is the current scene.
	scene scenes.Scene
}

type NewGameOptions struct {
	Debug   bool
	Session *scenes.Session
}

func NewGame(opts NewGameOptions) (ebiten.Game, error) {
	g := &Game{
		debug:   opts.Debug,
		session: opts.Session,
	}

	if err := g.SetScene(scenes.NewPlayScene(opts.Session)); err != nil {
		return nil, fmt.Errorf("failed to set play scene: %v", err)
	}

	return g, nil
}

func (g *Game) SetScene(scene scenes.Scene) error {
	if g.scene != nil {
		if err := g.scene.Destroy(); err != nil {
			return fmt.Errorf("failed to destroy previous scene: %v", err)
		}
	}

	g.scene = scene
	if err := g.scene.Init(); err != nil {
		return fmt.Errorf("failed to initialize scene: %v", err)
	}

	return nil
}

func (g *Game) Update() error {
	if err := g.scene.Update(); err != nil {
		return fmt.Errorf("failed to update scene: %v", err)
	}

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.debug {
		g.drawDebugOverlay(screen)
	}
}

func (g *Game) drawDebugOverlay(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n   FPS: %0.1f", ebiten.ActualFPS()))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n   TPS: %0.1f", ebiten.ActualTPS()))

	state := g.session.State()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n\n   Status: %s", state.Status))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n\n\n   Particles: %d", g.session.Particles().Active()))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n\n\n\n   Voices: %d", g.session.Audio().Voices()))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return scenes.ScreenWidth, scenes.ScreenHeight
}
