package input

import (
	"github.com/cbodonnell/tetris/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Command is a client-side control that does not go through the game loop.
type Command int

const (
	CommandMute Command = iota
	CommandVolumeUp
	CommandVolumeDown
	CommandRestart
)

// VolumeStep is the volume change of one CommandVolumeUp or CommandVolumeDown in percent
const VolumeStep = 10

// ActionBindings maps keys to game actions.
var ActionBindings = map[ebiten.Key]game.Action{
	ebiten.KeyArrowLeft:  game.ActionLeft,
	ebiten.KeyArrowRight: game.ActionRight,
	ebiten.KeyArrowDown:  game.ActionDown,
	ebiten.KeyArrowUp:    game.ActionRotate,
	ebiten.KeyZ:          game.ActionRotate,
	ebiten.KeySpace:      game.ActionSoftDrop,
	ebiten.KeyP:          game.ActionPause,
}

// CommandBindings maps keys to client commands.
var CommandBindings = map[ebiten.Key]Command{
	ebiten.KeyM:              CommandMute,
	ebiten.KeyEqual:          CommandVolumeUp,
	ebiten.KeyNumpadAdd:      CommandVolumeUp,
	ebiten.KeyMinus:          CommandVolumeDown,
	ebiten.KeyNumpadSubtract: CommandVolumeDown,
	ebiten.KeyEnter:          CommandRestart,
}

// Keys reports the key transitions of the current tick.
type Keys interface {
	JustPressed() []ebiten.Key
	JustReleased() []ebiten.Key
}

type ebitenKeys struct{}

func (ebitenKeys) JustPressed() []ebiten.Key {
	return inpututil.AppendJustPressedKeys(nil)
}

func (ebitenKeys) JustReleased() []ebiten.Key {
	return inpututil.AppendJustReleasedKeys(nil)
}

// Keyboard reads the keyboard through ebiten
var Keyboard Keys = ebitenKeys{}

// Frame is the input of one tick translated through the bindings.
type Frame struct {
	// AnyKey is set when any key was pressed, bound or not
	AnyKey   bool
	Pressed  []game.Action
	Released []game.Action
	Commands []Command
}

// Poll translates the key transitions of the current tick. An action bound
// to several keys is reported once.
func Poll(keys Keys) Frame {
	f := Frame{}
	for _, key := range keys.JustPressed() {
		f.AnyKey = true
		if action, ok := ActionBindings[key]; ok && !containsAction(f.Pressed, action) {
			f.Pressed = append(f.Pressed, action)
		}
		if command, ok := CommandBindings[key]; ok {
			f.Commands = append(f.Commands, command)
		}
	}
	for _, key := range keys.JustReleased() {
		if action, ok := ActionBindings[key]; ok && !containsAction(f.Released, action) {
			f.Released = append(f.Released, action)
		}
	}
	return f
}

func containsAction(actions []game.Action, action game.Action) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// IsPositiveJustPressed returns a boolean value indicating whether the generic positive input is just pressed.
// This is used to handle both mouse and touch inputs.
func IsPositiveJustPressed() bool {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	return len(touchIDs) > 0
}
