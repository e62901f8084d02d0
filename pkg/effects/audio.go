package effects

import "gitlab.com/tinyland/lab/lantern/pkg/audio"

// Soundscape plays the procedural ambience. Audio is best-effort: when the
// engine cannot start, the failure is logged and the run is silent.
type Soundscape struct {
	Engine *audio.Engine

	running bool
}

// NewSoundscape wraps an audio engine as a generator.
func NewSoundscape(e *audio.Engine) *Soundscape {
	return &Soundscape{Engine: e}
}

// Name implements Generator.
func (a *Soundscape) Name() string { return "audio" }

// Start implements Generator.
func (a *Soundscape) Start(env Env) (Disposer, error) {
	if a.running {
		return nil, ErrAlreadyRunning
	}
	a.running = true

	if a.Engine == nil {
		env.logger().Info("audio disabled")
		return once(func() { a.running = false }), nil
	}
	if err := a.Engine.Start(); err != nil {
		env.logger().Warn("audio unavailable, continuing silently", "error", err)
		return once(func() { a.running = false }), nil
	}
	return once(func() {
		a.Engine.Stop()
		a.running = false
	}), nil
}
