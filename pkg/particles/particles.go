package particles

import (
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"github.com/cbodonnell/tetris/pkg/game/constants"
	"github.com/cbodonnell/tetris/pkg/kinematic"
)

const (
	// Gravity is the downward acceleration applied to particles in px/s²
	Gravity float64 = 200
	// Damping multiplies both velocity components once per update
	Damping float64 = 0.98
	// TetrisSpeedMultiplier scales particle speed for a four line clear
	TetrisSpeedMultiplier float64 = 1.5
)

// Colors is the particle palette.
var Colors = [...]color.RGBA{
	{R: 0x9B, G: 0xBC, B: 0x0F, A: 0xFF},
	{R: 0x8B, G: 0xAC, B: 0x0F, A: 0xFF},
	{R: 0x30, G: 0x62, B: 0x30, A: 0xFF},
	{R: 0x0F, G: 0x38, B: 0x0F, A: 0xFF},
}

// lineClearCounts is the number of particles emitted for 1 to 4 lines.
var lineClearCounts = [...]int{0, 20, 40, 60, 100}

// Source is the randomness used to spread particles. *rand.Rand implements it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 {
	return rand.Float64()
}

// Particle is one slot of the pool. Positions and sizes are in pixels relative
// to the top left corner of the board, times are in seconds.
type Particle struct {
	Position kinematic.Vector
	Velocity kinematic.Vector
	Color    color.RGBA
	Alpha    float64
	Age      float64
	MaxAge   float64
	Size     float64
	active   bool
}

// System is a fixed-size particle pool. It never allocates after creation:
// when every slot is busy, new particles are dropped.
type System struct {
	pool   [constants.MaxParticles]Particle
	active int
	rnd    Source
}

// NewSystem creates an empty particle system. A nil source uses the global
// random generator.
func NewSystem(rnd Source) *System {
	if rnd == nil {
		rnd = globalSource{}
	}
	return &System{
		rnd: rnd,
	}
}

// Active returns the number of live particles.
func (s *System) Active() int {
	return s.active
}

// Each calls fn for every live particle.
func (s *System) Each(fn func(p *Particle)) {
	if s.active == 0 {
		return
	}
	for i := range s.pool {
		if s.pool[i].active {
			fn(&s.pool[i])
		}
	}
}

// Reset deactivates every particle.
func (s *System) Reset() {
	for i := range s.pool {
		s.pool[i].active = false
	}
	s.active = 0
}

func (s *System) free() *Particle {
	for i := range s.pool {
		if !s.pool[i].active {
			return &s.pool[i]
		}
	}
	return nil
}

// EmitLineClear bursts particles along the cleared rows. The burst size
// depends on count, the number of lines cleared at once, and is shared evenly
// between the rows.
func (s *System) EmitLineClear(rows []int, count int) {
	if len(rows) == 0 {
		return
	}
	if count <= 0 || count >= len(lineClearCounts) {
		count = len(rows)
	}
	total := lineClearCounts[1]
	if count < len(lineClearCounts) {
		total = lineClearCounts[count]
	}
	tetris := count == 4
	speedMultiplier := 1.0
	if tetris {
		speedMultiplier = TetrisSpeedMultiplier
	}

	cell := float64(constants.CellSize)
	perRow := total / count
	for _, row := range rows {
		for i := 0; i < perRow; i++ {
			p := s.free()
			if p == nil {
				return
			}

			angle := s.rnd.Float64() * 2 * math.Pi
			speed := (50 + s.rnd.Float64()*150) * speedMultiplier

			p.Position = kinematic.Vector{
				X: s.rnd.Float64() * float64(constants.BoardWidth) * cell,
				Y: float64(row)*cell + cell/2,
			}
			p.Velocity = kinematic.Vector{
				X: math.Cos(angle) * speed,
				Y: math.Sin(angle)*speed - 50,
			}
			p.Color = Colors[int(s.rnd.Float64()*float64(len(Colors)))%len(Colors)]
			p.Alpha = 1
			p.Age = 0
			p.MaxAge = 0.5 + s.rnd.Float64()*0.5
			if tetris {
				p.Size = 4 + s.rnd.Float64()*4
			} else {
				p.Size = 3 + s.rnd.Float64()*3
			}
			p.active = true
			s.active++
		}
	}
}

// Update ages and moves every live particle by dt.
func (s *System) Update(dt time.Duration) {
	if s.active == 0 {
		return
	}
	secs := dt.Seconds()
	gravity := kinematic.Vector{Y: Gravity}
	for i := range s.pool {
		p := &s.pool[i]
		if !p.active {
			continue
		}

		p.Age += secs
		if p.Age >= p.MaxAge {
			p.active = false
			s.active--
			continue
		}

		p.Position = kinematic.Displacement(p.Position, p.Velocity, secs)
		p.Velocity = kinematic.FinalVelocity(p.Velocity, secs, gravity).Scale(Damping)
		p.Alpha = 1 - p.Age/p.MaxAge
	}
}
