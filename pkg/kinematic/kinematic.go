package kinematic

// This package includes the vector math and integration steps used by
// free-moving objects such as particles. Screen space: Y grows downwards.

// Vector is a 2D position, velocity or acceleration.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v * f.
func (v Vector) Scale(f float64) Vector {
	return Vector{X: v.X * f, Y: v.Y * f}
}

// Displacement returns the position after moving at a constant velocity for
// time seconds.
func Displacement(position Vector, velocity Vector, time float64) Vector {
	return position.Add(velocity.Scale(time))
}

// FinalVelocity returns the velocity after accelerating for time seconds.
func FinalVelocity(initialVelocity Vector, time float64, acceleration Vector) Vector {
	return initialVelocity.Add(acceleration.Scale(time))
}
