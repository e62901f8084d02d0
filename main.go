// lantern is a personal landing page for the terminal.
//
// It shows a GitHub profile (avatar, bio and most-starred repositories) as
// a full-screen TUI. A hidden gesture flips the page into an unsettling
// alternate mode with ambient noise, a pointer trail, random disruptions
// and a procedural soundscape; the same gesture flips it back.
//
// Usage:
//
//	lantern [flags]
//
// Flags:
//
//	-config string  Path to configuration file (default: $XDG_CONFIG_HOME/lantern/config.toml)
//	-card           Print the profile card to stdout and exit
//	-demo           Use built-in demo data instead of the GitHub API
//	-no-audio       Disable the alternate-mode soundscape
//	-prompt         Print a one-line cached summary for a starship custom module
//	-shell string   Print shell startup integration (bash|zsh|fish|ksh|auto)
//	-verbose        Enable debug logging
//	-version        Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/lantern/pkg/app"
	"gitlab.com/tinyland/lab/lantern/pkg/audio"
	"gitlab.com/tinyland/lab/lantern/pkg/banner"
	"gitlab.com/tinyland/lab/lantern/pkg/cache"
	"gitlab.com/tinyland/lab/lantern/pkg/collectors"
	"gitlab.com/tinyland/lab/lantern/pkg/collectors/github"
	"gitlab.com/tinyland/lab/lantern/pkg/config"
	"gitlab.com/tinyland/lab/lantern/pkg/effects"
	limage "gitlab.com/tinyland/lab/lantern/pkg/image"
	"gitlab.com/tinyland/lab/lantern/pkg/mode"
	"gitlab.com/tinyland/lab/lantern/pkg/sched"
	"gitlab.com/tinyland/lab/lantern/pkg/shell"
	"gitlab.com/tinyland/lab/lantern/pkg/starship"
	"gitlab.com/tinyland/lab/lantern/pkg/surface"
	"gitlab.com/tinyland/lab/lantern/pkg/terminal"
	"gitlab.com/tinyland/lab/lantern/pkg/theme"
	"gitlab.com/tinyland/lab/lantern/pkg/transition"
	"gitlab.com/tinyland/lab/lantern/pkg/trigger"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// cardTimeout bounds the single fetch done by -card.
const cardTimeout = 20 * time.Second

// promptMaxAge hides the prompt segment once the cache is a day old.
const promptMaxAge = 24 * time.Hour

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		runCard     = flag.Bool("card", false, "Print the profile card and exit")
		useDemo     = flag.Bool("demo", false, "Use built-in demo data instead of the GitHub API")
		noAudio     = flag.Bool("no-audio", false, "Disable the alternate-mode soundscape")
		runPrompt   = flag.Bool("prompt", false, "Print a one-line cached summary for a starship custom module")
		shellName   = flag.String("shell", "", "Print shell startup integration (bash|zsh|fish|ksh|auto)")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("lantern %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if *shellName != "" {
		sh := shell.Detect()
		if *shellName != "auto" {
			sh = shell.Parse(*shellName)
		}
		if sh == "" {
			fmt.Fprintf(os.Stderr, "unsupported shell %q (want bash, zsh, fish, ksh or auto)\n", *shellName)
			os.Exit(2)
		}
		opts := shell.DefaultOptions()
		if exe, err := os.Executable(); err == nil {
			opts.BinaryPath = exe
		}
		fmt.Print(shell.Generate(sh, opts))
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *noAudio {
		cfg.Alternate.Audio = false
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := setupLogging(cfg, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	store, err := cache.NewStore(cache.StoreConfig{
		Dir:        cfg.General.CacheDir,
		DefaultTTL: cfg.Profile.CacheTTL.Duration,
		Logger:     logger,
	})
	if err != nil {
		logger.Warn("cache unavailable, fetching live", "error", err)
		store = nil
	} else if n, err := store.Prune(); err != nil {
		logger.Warn("cache prune failed", "error", err)
	} else if n > 0 {
		logger.Debug("pruned cache", "removed", n)
	}

	if *runPrompt {
		normal, _ := resolveThemes(cfg, logger)
		fmt.Println(starship.Render(starship.Config{
			Store:     store,
			User:      cfg.Profile.GitHubUser,
			ShowStars: true,
			ShowTop:   true,
			MaxAge:    promptMaxAge,
			Theme:     normal,
			Profile:   termenv.EnvColorProfile(),
		}))
		return
	}

	collector := github.New(github.Config{
		User:     cfg.Profile.GitHubUser,
		MaxRepos: cfg.Profile.MaxRepos,
		Interval: cfg.Profile.RefreshInterval.Duration,
		Client:   github.NewClient(cfg.Profile.APIBase, cfg.Profile.Token, nil),
		Store:    store,
		Logger:   logger,
	})

	caps := terminal.Inspect(cfg.Image.Protocol)
	logger.Debug("terminal detected",
		"term", caps.Term,
		"protocol", caps.Protocol,
		"size", fmt.Sprintf("%dx%d", caps.Size.Cols, caps.Size.Rows),
		"truecolor", caps.TrueColor,
		"ssh", caps.SSH,
	)

	normal, alternate := resolveThemes(cfg, logger)

	if *runCard {
		if err := printCard(ctx, cfg, caps, collector, store, normal, *useDemo, logger); err != nil {
			logger.Error("card failed", "error", err)
			fmt.Fprintf(os.Stderr, "lantern: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !caps.Interactive {
		fmt.Fprintln(os.Stderr, "lantern: stdout is not a terminal, try -card")
		os.Exit(1)
	}

	if err := runTUI(ctx, cfg, caps, collector, normal, alternate, *useDemo, logger); err != nil {
		logger.Error("TUI error", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// setupLogging opens the log file. The TUI owns the terminal, so nothing
// is written to stderr while it runs.
func setupLogging(cfg *config.Config, verbose bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.General.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	path := cfg.LogFile()
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}

func ensureLogDir(logFile string) error {
	dir := filepath.Dir(logFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory %s: %w", dir, err)
	}
	return nil
}

// resolveThemes loads the configured themes, falling back to the
// built-ins on error.
func resolveThemes(cfg *config.Config, logger *slog.Logger) (theme.Theme, theme.Theme) {
	load := func(ref, fallback string) theme.Theme {
		t, err := theme.Resolve(ref)
		if err != nil {
			logger.Warn("theme not found, using built-in", "theme", ref, "fallback", fallback, "error", err)
			return theme.Get(fallback)
		}
		return t
	}
	return load(cfg.Theme.Name, "healing"), load(cfg.Theme.Alternate, "hollow")
}

func colorProfile(caps terminal.Capabilities) termenv.Profile {
	p := termenv.NewOutput(os.Stdout).EnvColorProfile()
	if caps.TrueColor && p != termenv.Ascii {
		return termenv.TrueColor
	}
	return p
}

func printCard(ctx context.Context, cfg *config.Config, caps terminal.Capabilities, c *github.Collector, store *cache.Store, t theme.Theme, demo bool, logger *slog.Logger) error {
	var snap *github.Snapshot
	if demo {
		snap = github.Demo(cfg.Profile.GitHubUser)
	} else {
		ctx, cancel := context.WithTimeout(ctx, cardTimeout)
		defer cancel()
		data, err := c.Collect(ctx)
		if err != nil {
			logger.Warn("partial profile", "error", err)
		}
		snap = data.(*github.Snapshot)
	}

	var avatar *limage.Avatar
	if len(snap.Avatar) > 0 {
		a, err := limage.NewAvatar(snap.Avatar)
		if err != nil {
			logger.Warn("avatar decode failed", "error", err)
		} else {
			avatar = a
		}
	}

	out, err := banner.RenderCached(store, snap, avatar, banner.Options{
		Preset:   banner.SelectPreset(banner.TermWidth()),
		Protocol: caps.Protocol,
		Theme:    t,
		Profile:  colorProfile(caps),
		Label:    cfg.Display.SectionLabel,
		Footer:   cfg.Display.Title,
	})
	if err != nil {
		logger.Warn("card cache write failed", "error", err)
	}
	_, err = fmt.Fprintln(os.Stdout, out)
	return err
}

func runTUI(ctx context.Context, cfg *config.Config, caps terminal.Capabilities, c *github.Collector, normal, alternate theme.Theme, demo bool, logger *slog.Logger) error {
	zone.NewGlobal()
	defer zone.Close()

	loop := sched.NewLoop(cfg.Alternate.FrameRate)
	defer loop.Close()

	page := surface.NewPage(caps.Size.Cols, caps.Size.Rows, cfg.Display.SectionLabel)
	sw := mode.NewSwitch()
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	gens := []effects.Generator{effects.NewNoise(), effects.NewTrail(), effects.NewDisrupt()}
	if cfg.Alternate.Audio {
		defer audio.CloseSpeaker()
		engine := audio.NewEngine(audio.EngineConfig{
			Output:  &audio.SpeakerOutput{},
			Rand:    rng,
			Logger:  logger,
			Audible: func() bool { return sw.Is(mode.Alternate) },
		})
		gens = append(gens, effects.NewSoundscape(engine))
	}

	orch := effects.NewOrchestrator(effects.Config{
		Scheduler:      loop,
		Page:           page,
		Mode:           sw,
		Rand:           rng,
		Logger:         logger,
		Generators:     gens,
		AlternateLabel: cfg.Display.AlternateSectionLabel,
	})
	defer orch.Exit()

	director := transition.NewDirector(transition.Config{
		Scheduler:  loop,
		Page:       page,
		Mode:       sw,
		Rand:       rng,
		Logger:     logger,
		OnComplete: func() { orch.Enter() },
	})
	defer director.Abort()

	deps := app.Deps{
		Page:      page,
		Mode:      sw,
		Loop:      loop,
		Detector:  trigger.NewDetector(),
		Switcher:  effects.NewSwitcher(orch, director, logger),
		User:      cfg.Profile.GitHubUser,
		Title:     cfg.Display.Title,
		Normal:    normal,
		Alternate: alternate,
		Profile:   colorProfile(caps),
		Zones:     zone.DefaultManager,
		Logger:    logger,
		Context:   ctx,

		FrameInterval: sched.FrameInterval(cfg.Alternate.FrameRate),
	}

	var runner *collectors.Runner
	if demo {
		deps.Snapshot = github.Demo(cfg.Profile.GitHubUser)
	} else {
		reg := collectors.NewRegistry()
		if err := reg.Register(c); err != nil {
			return err
		}
		updates := make(chan collectors.Update, collectors.DefaultUpdateBufferSize)
		runner = collectors.NewRunner(reg, updates, logger)
		deps.Updates = updates
		deps.Refresh = func(ctx context.Context) error {
			c.Refresh()
			_, err := runner.RunOnce(ctx, github.Name)
			return err
		}
	}

	p := tea.NewProgram(app.New(deps),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	loop.Attach(func(msg any) { p.Send(msg) })

	if runner != nil {
		if err := runner.Start(ctx); err != nil {
			return err
		}
		defer runner.Stop()
	}

	if cfg.Display.WelcomeMessage != "" {
		logger.Info(cfg.Display.WelcomeMessage)
	}
	if cfg.Display.AlternateHint != "" {
		logger.Info(cfg.Display.AlternateHint)
	}
	logger.Info("starting lantern", "user", cfg.Profile.GitHubUser, "demo", demo, "audio", cfg.Alternate.Audio)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
