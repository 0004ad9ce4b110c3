package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	keyboardbehavior "github.com/baditaflorin/go_keyboard_behavior"
	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/logger"
	"github.com/baditaflorin/go_keyboard_behavior/internal/config"
	"github.com/baditaflorin/go_keyboard_behavior/internal/ports"
	"github.com/baditaflorin/go_keyboard_behavior/internal/replay"
)

func main() {
	// Parse command-line flags
	scriptPath := flag.String("script", "", "Key script to replay (TOML, YAML or JSON)")
	configPath := flag.String("config", "", "Session configuration file")
	localeID := flag.String("locale", "", "Locale identifier (overrides script and config)")
	logFile := flag.String("log-file", "", "Log file path (empty = stderr when replaying, discarded when interactive)")
	jsonLog := flag.Bool("json-log", false, "Write logs as JSON")
	flag.Parse()

	if *scriptPath == "" && flag.NArg() > 0 {
		*scriptPath = flag.Arg(0)
	}
	interactive := *scriptPath == ""

	log, err := createLogger(*logFile, *jsonLog, interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	opts, err := sessionOptions(*configPath, *localeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	opts = append(opts, keyboardbehavior.WithLogger(log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if interactive {
		err = runInteractive(ctx, opts)
	} else {
		err = runScript(ctx, *scriptPath, *localeID, opts)
	}
	if err != nil {
		log.Error("kbsim failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// sessionOptions turns the config file, if any, into session options.
func sessionOptions(configPath, localeID string) ([]keyboardbehavior.Option, error) {
	var opts []keyboardbehavior.Option
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			keyboardbehavior.WithBehaviorConfig(cfg.BehaviorSettings()),
			keyboardbehavior.WithRepeatConfig(cfg.RepeatSettings()),
		)
		if localeID == "" {
			localeID = cfg.Locale
		}
	}
	if localeID != "" {
		opts = append(opts, keyboardbehavior.WithLocale(localeID))
	}
	return opts, nil
}

func runScript(ctx context.Context, path, localeID string, opts []keyboardbehavior.Option) error {
	sc, err := replay.LoadFile(path)
	if err != nil {
		return err
	}
	if localeID != "" {
		sc.Locale = localeID
	}

	p, err := replay.NewPlayer(sc, opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	fmt.Printf("session %s locale=%s\n", p.Session().ID(), p.Session().Locale().ID)
	if _, err := p.Run(ctx, os.Stdout); err != nil {
		return err
	}
	fmt.Printf("final text: %q\n", p.Text())
	return nil
}

// createLogger creates and configures a logger
func createLogger(logFile string, jsonFormat, interactive bool) (ports.Logger, error) {
	cfg := logger.DefaultConfig()
	cfg.JsonFormat = jsonFormat
	cfg.Output = os.Stderr

	switch {
	case logFile != "":
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		cfg.Output = file
	case interactive:
		// The screen owns the terminal.
		return logger.NewNopLogger(), nil
	}

	log, err := logger.NewCustomStdLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}
