package scenes

import (
	"strings"
	"time"

	"github.com/cbodonnell/tetris/client/input"
	"github.com/cbodonnell/tetris/client/settings"
	"github.com/cbodonnell/tetris/client/ui"
	"github.com/cbodonnell/tetris/pkg/audio"
	"github.com/cbodonnell/tetris/pkg/game"
	"github.com/cbodonnell/tetris/pkg/game/types"
	"github.com/cbodonnell/tetris/pkg/highscores"
	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/cbodonnell/tetris/pkg/messages"
	"github.com/cbodonnell/tetris/pkg/particles"
	"github.com/cbodonnell/tetris/pkg/repositories/models"
	"github.com/cbodonnell/tetris/pkg/workers"
)

// MaxFrameDelta caps the particle step after a stall
const MaxFrameDelta = 100 * time.Millisecond

// ErrMsgSubmit is shown when a submission fails for a reason the player cannot fix
const ErrMsgSubmit = "Failed to submit score. Please try again."

// ScoreService runs high score requests in the background.
type ScoreService interface {
	RefreshScores() error
	SubmitScore(submission messages.SubmitScoreRequest) error
	PollResult() (workers.ScoreResult, bool)
	PollLiveScores() ([]models.HighScore, bool)
}

type FormStatus int

const (
	FormHidden FormStatus = iota
	FormOpen
	FormSubmitting
	FormSubmitted
)

// Form is the high score entry offered after a qualifying game.
type Form struct {
	Status FormStatus
	Score  int64
	Level  int64
	// Message is shown under the form, usually a rejection reason
	Message string
	// Rank is the place the submitted score took
	Rank int
}

// Session wires the game loop to its consumers: particles, audio, the
// leaderboard and the high score form. It holds no images, so everything
// except drawing runs without a graphics device.
type Session struct {
	loop        *game.Loop
	particles   *particles.System
	audio       *audio.Engine
	settings    *settings.Manager
	scores      ScoreService
	leaderboard []models.HighScore
	form        Form
	lastTick    time.Time
}

type NewSessionOptions struct {
	Loop      *game.Loop
	Particles *particles.System
	Audio     *audio.Engine
	Settings  *settings.Manager
	Scores    ScoreService
}

func NewSession(opts NewSessionOptions) *Session {
	return &Session{
		loop:      opts.Loop,
		particles: opts.Particles,
		audio:     opts.Audio,
		settings:  opts.Settings,
		scores:    opts.Scores,
	}
}

// Init requests the leaderboard.
func (s *Session) Init() {
	if err := s.scores.RefreshScores(); err != nil {
		log.Warn("Failed to request high scores: %v", err)
	}
}

func (s *Session) State() types.GameState {
	return s.loop.State()
}

func (s *Session) Particles() *particles.System {
	return s.particles
}

func (s *Session) Audio() *audio.Engine {
	return s.audio
}

func (s *Session) Leaderboard() []models.HighScore {
	return s.leaderboard
}

func (s *Session) Form() Form {
	return s.form
}

// HandleInput applies one tick of input. gesture reports a mouse or touch press.
func (s *Session) HandleInput(frame input.Frame, gesture bool, now time.Time) {
	if frame.AnyKey || gesture {
		// audio output may only start on a user gesture
		s.audio.Init()
	}

	if s.form.Status != FormOpen {
		for _, command := range frame.Commands {
			s.handleCommand(command, now)
		}
	}

	for _, action := range frame.Released {
		s.loop.Release(action)
	}

	if s.loop.State().Status == types.StatusMenu {
		if frame.AnyKey || gesture {
			s.loop.Start(now)
		}
		return
	}

	for _, action := range frame.Pressed {
		s.loop.Press(action, now)
	}
}

func (s *Session) handleCommand(command input.Command, now time.Time) {
	switch command {
	case input.CommandMute:
		s.audio.ToggleMute()
	case input.CommandVolumeUp:
		s.setVolume(s.audio.Volume() + input.VolumeStep)
	case input.CommandVolumeDown:
		s.setVolume(s.audio.Volume() - input.VolumeStep)
	case input.CommandRestart:
		if s.loop.State().Status == types.StatusGameOver && s.form.Status != FormSubmitting {
			s.Restart(now)
		}
		return
	}
	s.saveSettings()
}

// setVolume changes the master volume. Changing the volume unmutes.
func (s *Session) setVolume(percent int) {
	s.audio.SetVolume(percent)
	if s.audio.Muted() {
		s.audio.ToggleMute()
	}
}

func (s *Session) saveSettings() {
	err := s.settings.Update(func(st *settings.Settings) {
		st.Volume = s.audio.Volume()
		st.Muted = s.audio.Muted()
	})
	if err != nil {
		log.Warn("Failed to save settings: %v", err)
	}
}

// Restart starts a new game. The start event closes the high score form.
func (s *Session) Restart(now time.Time) {
	s.loop.Start(now)
}

// Update advances the loop and its consumers to now.
func (s *Session) Update(now time.Time) {
	s.loop.Update(now)

	for _, event := range s.loop.Events().ReadAllMessages() {
		s.handleEvent(event)
	}

	dt := MaxFrameDelta
	if !s.lastTick.IsZero() {
		dt = min(now.Sub(s.lastTick), MaxFrameDelta)
	}
	s.lastTick = now
	s.particles.Update(dt)

	s.pollScores()
}

func (s *Session) handleEvent(event types.Event) {
	s.audio.Play(event)

	switch event.Type {
	case types.EventStart:
		s.particles.Reset()
		s.form = Form{}
	case types.EventLineClear:
		s.particles.EmitLineClear(event.Rows, event.Count)
	case types.EventGameOver:
		if highscores.Qualifies(s.leaderboard, event.Score) {
			s.form = Form{
				Status: FormOpen,
				Score:  event.Score,
				Level:  int64(s.loop.State().Level),
			}
		}
	}
}

// SubmitInitials submits the open form's score under the given initials.
// Input is upper-cased; anything that is not three letters is rejected
// locally with the same message the server uses.
func (s *Session) SubmitInitials(initials string) {
	if s.form.Status != FormOpen {
		return
	}
	submission := highscores.Submission{
		Initials: strings.ToUpper(strings.TrimSpace(initials)),
		Score:    s.form.Score,
		Level:    s.form.Level,
	}
	if err := submission.Validate(); err != nil {
		s.form.Message = err.Error()
		return
	}

	err := s.scores.SubmitScore(messages.SubmitScoreRequest{
		Initials: submission.Initials,
		Score:    submission.Score,
		Level:    submission.Level,
	})
	if err != nil {
		log.Error("Failed to queue score submission: %v", err)
		s.form.Message = ErrMsgSubmit
		return
	}
	s.form.Status = FormSubmitting
	s.form.Message = ""
}

func (s *Session) pollScores() {
	if scores, ok := s.scores.PollLiveScores(); ok {
		s.leaderboard = scores
	}

	result, ok := s.scores.PollResult()
	if !ok {
		return
	}
	if result.Scores != nil {
		s.leaderboard = result.Scores
	}
	// refresh results never settle a pending submission
	if s.form.Status != FormSubmitting || !result.Submit {
		return
	}
	switch {
	case result.Submitted:
		s.form.Status = FormSubmitted
		s.form.Rank = result.Rank
	case result.Err != nil:
		log.Error("Failed to submit score: %v", result.Err)
		s.form.Status = FormOpen
		s.form.Message = ui.MessageFor(result.Err, ErrMsgSubmit)
	}
}
