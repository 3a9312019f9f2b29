package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sandevgo/tastybot/internal/config"
	"github.com/sandevgo/tastybot/internal/service/turn"
	"github.com/sandevgo/tastybot/pkg/log"
)

const defaultConversationID = "cli-local"

type ReadLine struct {
	cfg   *config.AppConfig
	turns *turn.Orchestrator
	rl    *readline.Instance
}

func NewReadLine(turns *turn.Orchestrator, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:   cfg,
		turns: turns,
		rl:    rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("chat started. Type 'exit' to quit.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		response, err := r.turns.HandleTurn(ctx, defaultConversationID, line)
		if err != nil {
			logger.Error().Err(err).Msg("turn failed")
			fmt.Fprintf(r.rl.Stdout(), "Error: %v\n", err)
			continue
		}

		fmt.Fprintf(r.rl.Stdout(), "%s\n", response)
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
