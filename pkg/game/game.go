package game

import (
	"time"

	"github.com/cbodonnell/tetris/pkg/game/constants"
	"github.com/cbodonnell/tetris/pkg/game/types"
	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/cbodonnell/tetris/pkg/queue"
)

// Loop owns the authoritative game state. It is driven by the frame callback
// and is not safe for concurrent use; consumers read what happened through
// the event queue.
type Loop struct {
	state     types.GameState
	rng       Randomizer
	events    queue.Queue[types.Event]
	repeaters map[Action]*Repeater
	lastDrop  time.Time
}

// NewLoopOptions contains options for creating a new Loop.
type NewLoopOptions struct {
	// Randomizer chooses new pieces. Defaults to a time-seeded uniform randomizer.
	Randomizer Randomizer
	// Events receives the events produced by each transition.
	// Defaults to an in-memory queue.
	Events queue.Queue[types.Event]
}

func NewLoop(opts NewLoopOptions) *Loop {
	rng := opts.Randomizer
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = NewRandomizer(seed, seed>>32)
	}
	events := opts.Events
	if events == nil {
		events = queue.NewInMemoryQueue[types.Event](queue.QueueBufferSize)
	}

	repeaters := make(map[Action]*Repeater)
	for _, a := range []Action{ActionLeft, ActionRight, ActionDown} {
		repeaters[a] = NewRepeater(constants.DASDelay, constants.DASInterval)
	}

	return &Loop{
		state:     types.NewGameState(),
		rng:       rng,
		events:    events,
		repeaters: repeaters,
	}
}

// State returns a snapshot of the current state.
func (l *Loop) State() types.GameState {
	return l.state
}

// Events returns the queue the loop publishes events to.
func (l *Loop) Events() queue.Queue[types.Event] {
	return l.events
}

// Start begins a new game, discarding the current one.
func (l *Loop) Start(now time.Time) {
	for _, r := range l.repeaters {
		r.Release()
	}
	s, events := Start(l.rng)
	l.apply(s, events)
	l.lastDrop = now
}

// Press handles an action whose key went down at now.
func (l *Loop) Press(action Action, now time.Time) {
	switch l.state.Status {
	case types.StatusMenu:
		l.Start(now)
		return
	case types.StatusGameOver:
		return
	case types.StatusPaused:
		if action == ActionPause {
			l.togglePause(now)
		}
		return
	}

	if action == ActionPause {
		l.togglePause(now)
		return
	}

	l.perform(action)
	if l.state.Status != types.StatusPlaying {
		return
	}
	if r, ok := l.repeaters[action]; ok && action.repeatable() {
		r.Press(now)
	}
}

// Release handles an action whose key went up.
func (l *Loop) Release(action Action) {
	if r, ok := l.repeaters[action]; ok {
		r.Release()
	}
}

// Update advances the loop to now: held inputs repeat first, then gravity.
func (l *Loop) Update(now time.Time) {
	if l.state.Status != types.StatusPlaying {
		return
	}

	for _, action := range []Action{ActionLeft, ActionRight, ActionDown} {
		if l.repeaters[action].Due(now) {
			l.perform(action)
		}
		if l.state.Status != types.StatusPlaying {
			return
		}
	}

	// one step per tick, even when several intervals have elapsed
	if now.Sub(l.lastDrop) >= DropInterval(l.state.Level) {
		s, events := StepDown(l.state, l.rng)
		l.apply(s, events)
		l.lastDrop = now
	}
}

func (l *Loop) perform(action Action) {
	var (
		s      types.GameState
		events []types.Event
	)
	switch action {
	case ActionLeft:
		s, events = Move(l.state, -1)
	case ActionRight:
		s, events = Move(l.state, 1)
	case ActionDown:
		s, events = StepDown(l.state, l.rng)
	case ActionRotate:
		s, events = Rotate(l.state)
	case ActionSoftDrop:
		s, events = SoftDrop(l.state, l.rng)
	default:
		return
	}
	l.apply(s, events)
}

func (l *Loop) togglePause(now time.Time) {
	s, events := TogglePause(l.state)
	if s.Status == types.StatusPlaying {
		// time spent paused does not count towards gravity
		l.lastDrop = now
	}
	if s.Status == types.StatusPaused {
		for _, r := range l.repeaters {
			r.Release()
		}
	}
	l.apply(s, events)
}

func (l *Loop) apply(s types.GameState, events []types.Event) {
	l.state = s
	for _, e := range events {
		if err := l.events.Enqueue(e); err != nil {
			log.Warn("Dropped %s event: %v", e.Type, err)
		}
		if e.Type == types.EventGameOver {
			for _, r := range l.repeaters {
				r.Release()
			}
		}
	}
}
