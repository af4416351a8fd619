package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/marcelocantos/sshell/internal/builtin"
	"github.com/marcelocantos/sshell/internal/config"
	"github.com/marcelocantos/sshell/internal/guard"
	"github.com/marcelocantos/sshell/internal/history"
	"github.com/marcelocantos/sshell/internal/logging"
	"github.com/marcelocantos/sshell/internal/pipeline"
	"github.com/marcelocantos/sshell/internal/shell"
)

// App is the wired shell: configuration, builtins, engine and history.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Builtins *builtin.Registry
	Engine   *pipeline.Engine
	History  *history.Logger // nil when disabled or unavailable

	logCloser io.Closer
}

// Setup loads the configuration at cfgPath (the standard location when
// empty) and wires everything it describes. Problems with the history log
// are reported on stderr and leave history disabled.
func Setup(cfgPath string, stderr io.Writer) (*App, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFrom(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}

	reg := builtin.NewRegistry()
	builtin.RegisterAll(reg)

	g, err := guard.FromConfig(cfg.Guard)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("guard: %w", err)
	}
	engine := &pipeline.Engine{Logger: logger}
	if g != nil {
		engine.Guard = g.Check
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Builtins:  reg,
		Engine:    engine,
		logCloser: closer,
	}

	if cfg.History.Enabled {
		hist, err := history.NewLogger(cfg.History.Path)
		if err != nil {
			// Continue without history.
			fmt.Fprintf(stderr, "sshell: history: %v\n", err)
		} else {
			app.History = hist
		}
	}

	logger.Debug("setup complete", "guard", g != nil, "history", app.History != nil)
	return app, nil
}

// Shell returns a shell wired to the app.
func (a *App) Shell() *shell.Shell {
	return shell.New(a.Config, a.Builtins, a.Engine, a.History, a.Logger)
}

// Close releases the app's log file.
func (a *App) Close() error {
	return a.logCloser.Close()
}
