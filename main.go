package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mrsingh-rishi/voice-translate/config"
)

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) int
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"transcribe":  {"transcribe <audio>", runTranscribe},
		"translate":   {"translate [-backend name] <text> [target] [source]", runTranslate},
		"synthesize":  {"synthesize <text> [language] [output]", runSynthesize},
		"pipeline":    {"pipeline [-lang ta] [-upload] [-timestamp t] <audio>", runPipeline},
		"smoke":       {"smoke <check...|all>", runSmoke},
		"status":      {"status", runStatus},
		"debug-audio": {"debug-audio <audio>", runDebugAudio},
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: voicetranslate [-v] <command> [args]")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[n].usage)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func main() {
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}
	cmd, ok := commands[strings.ToLower(flag.Arg(0))]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", flag.Arg(0))
		usage()
		os.Exit(1)
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	sugar := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("❌ config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.run(ctx, newApp(cfg, sugar), flag.Args()[1:])
	stop()
	_ = logger.Sync()
	os.Exit(code)
}
