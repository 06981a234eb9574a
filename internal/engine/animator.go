package engine

// Clocked receives the animation time once per frame.
type Clocked interface {
	SetTime(t float32)
}

// Animator owns the animation clock. It is the only writer of time: each
// Advance adds the frame step and hands the new time to every target
// before the frame is rendered.
type Animator struct {
	Time float32
	DT   float32

	targets []Clocked
}

// NewAnimator starts a clock at zero. A negative step is treated as zero
// so time never runs backwards.
func NewAnimator(dt float32, targets ...Clocked) *Animator {
	return &Animator{DT: max(dt, 0), targets: targets}
}

// Advance moves the clock one frame forward and returns the new time.
func (a *Animator) Advance() float32 {
	a.Time += a.DT
	for _, t := range a.targets {
		t.SetTime(a.Time)
	}
	return a.Time
}
