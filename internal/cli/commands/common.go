package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/darjeeling/nudge/internal/activity"
	"github.com/darjeeling/nudge/internal/config"
	"github.com/darjeeling/nudge/internal/history"
	"github.com/darjeeling/nudge/internal/invoke"
	"github.com/darjeeling/nudge/internal/monitor"
)

// monitorOptions collects the flags shared by the root and status commands.
type monitorOptions struct {
	Directory     string
	ClaudePrompt  string
	GLMPrompt     string
	CheckInterval time.Duration
	IdleThreshold time.Duration
	ClaudeOnly    bool
	GLMOnly       bool
	NoTUI         bool
	NoFSEvents    bool
}

// resolveDirectory validates the action target directory, defaulting to the
// current directory.
func resolveDirectory(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("directory does not exist: %s", dir)
	}
	return dir, nil
}

// buildAgents turns config + flags into the scheduler's agent set and the
// union of filesystem watch roots. All configuration errors surface here,
// before any monitoring starts.
func buildAgents(cfg *config.Config, opts monitorOptions) ([]*monitor.Agent, []string, error) {
	if opts.ClaudeOnly && opts.GLMOnly {
		return nil, nil, fmt.Errorf("cannot use --claude-only and --glm-only together")
	}

	dir, err := resolveDirectory(opts.Directory)
	if err != nil {
		return nil, nil, err
	}

	threshold := opts.IdleThreshold
	if threshold <= 0 {
		threshold = cfg.IdleThreshold.Std()
	}

	defs := cfg.Monitors
	if len(defs) == 0 {
		defs = config.DefaultMonitors()
	}

	var agents []*monitor.Agent
	var roots []string
	for _, def := range defs {
		if opts.ClaudeOnly && def.Kind != config.KindClaude {
			continue
		}
		if opts.GLMOnly && def.Kind != config.KindAPI {
			continue
		}

		prompt := def.Prompt
		var invoker invoke.Invoker
		switch def.Kind {
		case config.KindClaude:
			if opts.ClaudePrompt != "" {
				prompt = opts.ClaudePrompt
			}
			invoker = invoke.NewCommandInvoker()
		case config.KindAPI:
			if opts.GLMPrompt != "" {
				prompt = opts.GLMPrompt
			}
			creds, err := config.LoadGLMCredentials(config.GLMEnvPath())
			if err != nil {
				if opts.GLMOnly {
					return nil, nil, err
				}
				// Optional monitor with broken config: warn and skip
				// rather than refusing to start.
				fmt.Fprintf(os.Stderr, "Warning: skipping %s monitor: %v\n", def.Name, err)
				continue
			}
			invoker, err = invoke.NewAPIInvoker(creds.BaseURL, creds.AuthToken)
			if err != nil {
				return nil, nil, err
			}
		}

		src := activity.NewSource(def.BasePath)
		agents = append(agents, monitor.NewAgent(monitor.AgentConfig{
			Name:          def.Name,
			Dir:           dir,
			Prompt:        prompt,
			Source:        src,
			IdleThreshold: threshold,
			Invoker:       invoker,
		}))
		roots = append(roots, src.WatchRoots()...)
	}

	if len(agents) == 0 {
		return nil, nil, fmt.Errorf("no monitors to run")
	}
	return agents, roots, nil
}

// openHistory opens the run audit log. A failure is reported but not fatal;
// the monitor runs without history rather than not at all.
func openHistory() *history.DB {
	db, err := history.Open(config.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
		return nil
	}
	return db
}
