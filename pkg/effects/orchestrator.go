package effects

import (
	"io"
	"log/slog"
	"math/rand/v2"

	"gitlab.com/tinyland/lab/lantern/pkg/mode"
	"gitlab.com/tinyland/lab/lantern/pkg/sched"
	"gitlab.com/tinyland/lab/lantern/pkg/surface"
)

// DefaultAlternateLabel replaces the section label in Alternate mode.
const DefaultAlternateLabel = "// forgotten projects"

// Config wires an Orchestrator.
type Config struct {
	Scheduler  sched.Scheduler
	Page       *surface.Page
	Mode       *mode.Switch
	Rand       *rand.Rand
	Logger     *slog.Logger
	Generators []Generator

	// AlternateLabel defaults to DefaultAlternateLabel.
	AlternateLabel string
}

// Orchestrator owns the Alternate mode lifecycle.
type Orchestrator struct {
	cfg     Config
	log     *slog.Logger
	env     Env
	handles *HandleSet
	restore string
}

// NewOrchestrator returns an Orchestrator in Normal mode.
func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.AlternateLabel == "" {
		cfg.AlternateLabel = DefaultAlternateLabel
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = log.With("component", "effects")
	return &Orchestrator{
		cfg: cfg,
		log: log,
		env: Env{
			Scheduler: cfg.Scheduler,
			Page:      cfg.Page,
			Mode:      cfg.Mode,
			Rand:      cfg.Rand,
			Logger:    log,
		},
		handles: NewHandleSet(),
	}
}

// Mode returns the read-only mode view.
func (o *Orchestrator) Mode() mode.Reader { return o.cfg.Mode }

// Handles returns the live generator handles.
func (o *Orchestrator) Handles() *HandleSet { return o.handles }

// Enter switches to Alternate mode and starts every generator. It reports
// false when already in Alternate mode.
func (o *Orchestrator) Enter() bool {
	if o.cfg.Mode.Is(mode.Alternate) {
		return false
	}
	o.cfg.Mode.Set(mode.Alternate)
	o.cfg.Page.AddClass(surface.ClassAlternate)
	o.restore = o.cfg.Page.SetLabel(o.cfg.AlternateLabel)

	for _, g := range o.cfg.Generators {
		d, err := g.Start(o.env)
		if err != nil {
			o.log.Warn("effect failed to start", "effect", g.Name(), "error", err)
			continue
		}
		o.handles.Add(g.Name(), d)
	}
	o.log.Info("entered alternate mode", "effects", o.handles.Names())
	return true
}

// Exit returns to Normal mode and disposes every generator handle. It
// reports false when already in Normal mode.
func (o *Orchestrator) Exit() bool {
	if o.cfg.Mode.Is(mode.Normal) {
		return false
	}
	o.cfg.Mode.Set(mode.Normal)
	o.cfg.Page.SetLabel(o.restore)
	o.cfg.Page.RemoveClass(surface.ClassAlternate)
	o.handles.DisposeAll()
	o.log.Info("returned to normal mode")
	return true
}
