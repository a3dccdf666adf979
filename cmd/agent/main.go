package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/petasbytes/headless-agent/internal/config"
	"github.com/petasbytes/headless-agent/internal/diag"
	"github.com/petasbytes/headless-agent/internal/display"
	"github.com/petasbytes/headless-agent/internal/provider"
	"github.com/petasbytes/headless-agent/internal/runner"
	"github.com/petasbytes/headless-agent/internal/telemetry"
	"github.com/petasbytes/headless-agent/internal/transcript"
	"github.com/petasbytes/headless-agent/tools"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	var (
		prompt       = flag.String("p", "", "prompt text (falls back to positional args, then stdin)")
		providerName = flag.String("provider", "", "model provider: gemini or anthropic")
		model        = flag.String("model", "", "model name override")
		maxTurns     = flag.Int("max-turns", -1, "max session turns (0 = unlimited)")
		promptID     = flag.String("prompt-id", "", "prompt id for telemetry correlation")
	)
	flag.Parse()

	// Flush telemetry exactly once, whatever the terminal state.
	defer func() {
		if telemetry.Initialized() {
			if err := telemetry.Shutdown(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: telemetry shutdown: %v\n", err)
			}
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *providerName != "" {
		cfg.Provider = *providerName
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *maxTurns >= 0 {
		cfg.MaxSessionTurns = *maxTurns
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := cfg.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	input, err := resolveInput(*prompt, flag.Args(), os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	for _, w := range diag.StartupWarnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	chat, err := newChat(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// A consumer hanging up on stdout must end the run cleanly, not
	// kill the process: take SIGPIPE so writes fail with EPIPE, which
	// the guarded writer absorbs.
	signal.Ignore(syscall.SIGPIPE)
	stdout := display.NewGuardedWriter(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id := *promptID
	if id == "" {
		id = fmt.Sprintf("prompt-%d", time.Now().UnixNano())
	}

	r := runner.New(chat, tools.Default(), cfg.MaxSessionTurns, stdout, os.Stderr)
	if cfg.Transcript {
		r.Transcript = transcript.NewRecorder()
	}

	runErr := r.Run(ctx, input, id)

	if r.Transcript != nil {
		path := filepath.Join(".agent", "transcript.json")
		if err := r.Transcript.Save(path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save transcript: %v\n", err)
		}
	}

	if runErr != nil {
		printFatal(os.Stderr, runErr, cfg.AuthType())
		return 1
	}
	return 0
}

func newChat(cfg *config.Config) (provider.ChatSession, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return provider.NewAnthropicChat(cfg.Model)
	default:
		return provider.NewGeminiChat(cfg.Model, cfg.TokenBudget)
	}
}

// resolveInput picks the prompt from the -p flag, positional args, or
// stdin, in that order.
func resolveInput(flagPrompt string, args []string, stdin io.Reader) (string, error) {
	if flagPrompt != "" {
		return flagPrompt, nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	input := strings.TrimSpace(string(b))
	if input == "" {
		return "", errors.New("no input provided; pass -p, positional args, or pipe text on stdin")
	}
	return input, nil
}

// printFatal formats an uncaught error for the end user. Tool failures
// are self-describing; anything else gets an authentication-context
// hint since transport errors are most often credential problems.
func printFatal(w io.Writer, err error, authType string) {
	fmt.Fprintf(w, "Error: %v\n", err)
	var tf *runner.ToolFailedError
	if !errors.As(err, &tf) && authType != "" {
		fmt.Fprintf(w, "Current auth method: %s. If this is an API error, verify your credentials.\n", authType)
	}
}
