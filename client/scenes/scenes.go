package scenes

import "github.com/hajimehoshi/ebiten/v2"

// Scene is a screen of the client with a lifecycle driven by the game.
type Scene interface {
	Init() error
	Destroy() error
	Update() error
	Draw(screen *ebiten.Image)
}
