package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-translate/client"
	"github.com/mrsingh-rishi/voice-translate/config"
	"github.com/mrsingh-rishi/voice-translate/model"
	"github.com/mrsingh-rishi/voice-translate/pipeline"
	"github.com/mrsingh-rishi/voice-translate/smoke"
	"github.com/mrsingh-rishi/voice-translate/storage"
	"github.com/mrsingh-rishi/voice-translate/stt"
	"github.com/mrsingh-rishi/voice-translate/translate"
	"github.com/mrsingh-rishi/voice-translate/tts"
)

const audioErrorText = "Error: Could not generate audio"

type app struct {
	cfg        *config.Config
	logger     *zap.SugaredLogger
	httpClient *http.Client
}

func newApp(cfg *config.Config, logger *zap.SugaredLogger) *app {
	return &app{cfg: cfg, logger: logger, httpClient: &http.Client{Timeout: cfg.HTTPTimeout}}
}

// speaker wraps the configured engine in the silent fallback. An engine that
// cannot be built leaves only the fallback.
func (a *app) speaker() *tts.Fallback {
	synth, err := tts.FromConfig(a.cfg, a.httpClient, a.logger)
	if err != nil {
		a.logger.Warnf("⚠️ TTS engine unavailable, audio will be silent: %v", err)
		synth = nil
	}
	return tts.WithSilentFallback(synth, a.logger)
}

func parse(fs *flag.FlagSet, args []string, min int) ([]string, bool) {
	if err := fs.Parse(args); err != nil {
		return nil, false
	}
	if fs.NArg() < min {
		fs.Usage()
		return nil, false
	}
	return fs.Args(), true
}

func argOr(args []string, i int, def string) string {
	if len(args) > i && args[i] != "" {
		return args[i]
	}
	return def
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprintf(os.Stderr, "Usage: voicetranslate %s\n", commands[name].usage) }
	return fs
}

func runTranscribe(ctx context.Context, a *app, args []string) int {
	rest, ok := parse(newFlagSet("transcribe"), args, 1)
	if !ok {
		return 1
	}
	chain, err := stt.FromConfig(a.cfg, a.httpClient, a.logger)
	if err != nil {
		fmt.Println(stt.Describe(err))
		return 1
	}
	tr, err := chain.Transcribe(ctx, rest[0])
	if err != nil {
		fmt.Println(stt.Describe(err))
		return 0
	}
	fmt.Println(tr.Text)
	return 0
}

func runTranslate(ctx context.Context, a *app, args []string) int {
	fs := newFlagSet("translate")
	backend := fs.String("backend", "", "use only this backend (openai, gemini, google, azure, deepl, phrasebook)")
	rest, ok := parse(fs, args, 1)
	if !ok {
		return 1
	}
	text := rest[0]
	target := argOr(rest, 1, "en")
	source := argOr(rest, 2, model.AutoDetect)

	if *backend != "" {
		single, err := translate.NewSingle(ctx, *backend, a.cfg, a.httpClient, a.logger)
		if err != nil {
			a.logger.Errorf("❌ %v", err)
			fmt.Println(translate.ErrorText(text))
			return 1
		}
		fmt.Println(single.Translate(ctx, text, source, target))
		return 0
	}

	chain, err := translate.FromConfig(ctx, a.cfg, a.httpClient, a.logger)
	if err != nil {
		a.logger.Errorf("❌ %v", err)
		return 1
	}
	tr, err := chain.Translate(ctx, text, source, target)
	if err != nil {
		a.logger.Errorf("❌ %v", err)
		return 1
	}
	fmt.Println(tr.Text)
	return 0
}

func runSynthesize(ctx context.Context, a *app, args []string) int {
	rest, ok := parse(newFlagSet("synthesize"), args, 1)
	if !ok {
		return 1
	}
	speech, err := a.speaker().Speak(ctx, rest[0], argOr(rest, 1, "en"), argOr(rest, 2, "output.wav"))
	if err != nil {
		a.logger.Errorf("❌ %v", err)
		fmt.Println(audioErrorText)
		return 1
	}
	fmt.Println(speech.Path)
	return 0
}

func runPipeline(ctx context.Context, a *app, args []string) int {
	fs := newFlagSet("pipeline")
	lang := fs.String("lang", "ta", "target language")
	upload := fs.Bool("upload", false, "publish the audio to the configured store")
	timestamp := fs.String("timestamp", "", "video timestamp to echo back")
	rest, ok := parse(fs, args, 1)
	if !ok {
		return 1
	}

	p, err := a.pipeline(ctx, *upload)
	if err != nil {
		a.logger.Errorf("❌ %v", err)
		return 1
	}
	res, err := p.Run(ctx, rest[0], *lang)
	if errors.Is(err, pipeline.ErrNoSpeech) {
		fmt.Println("No speech detected or audio unclear")
		return 1
	}
	if err != nil {
		a.logger.Errorf("❌ pipeline: %v", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res.Response(*timestamp)); err != nil {
		return 1
	}
	return 0
}

func (a *app) pipeline(ctx context.Context, upload bool) (*pipeline.Pipeline, error) {
	transcriber, err := stt.FromConfig(a.cfg, a.httpClient, a.logger)
	if err != nil {
		return nil, err
	}
	translator, err := translate.FromConfig(ctx, a.cfg, a.httpClient, a.logger)
	if err != nil {
		return nil, err
	}
	var store storage.Store
	if upload {
		if store, err = storage.FromConfig(ctx, a.cfg, a.logger); err != nil {
			return nil, err
		}
	}
	return pipeline.New(transcriber, translator, a.speaker(), store, a.logger), nil
}

func (a *app) smokeEnv(ctx context.Context) *smoke.Env {
	env := &smoke.Env{
		Client:      client.New(a.cfg.ServerURL, a.httpClient, a.logger),
		FrontendURL: a.cfg.FrontendURL,
	}
	if chain, err := stt.FromConfig(a.cfg, a.httpClient, a.logger); err == nil {
		env.STT = chain
	} else {
		a.logger.Warnf("⚠️ no transcriber: %v", err)
	}
	if chain, err := translate.FromConfig(ctx, a.cfg, a.httpClient, a.logger); err == nil {
		env.Translator = chain
	} else {
		a.logger.Warnf("⚠️ no translator: %v", err)
	}
	env.Speaker = a.speaker()
	return env
}

func runChecks(ctx context.Context, a *app, checks []smoke.Check) int {
	runner := smoke.NewRunner(a.smokeEnv(ctx), a.logger)
	runner.Add(checks...)
	if !smoke.Print(os.Stdout, runner.Run(ctx)) {
		return 1
	}
	return 0
}

func runSmoke(ctx context.Context, a *app, args []string) int {
	rest, ok := parse(newFlagSet("smoke"), args, 1)
	if !ok {
		return 1
	}
	checks, err := smoke.Lookup(rest...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return runChecks(ctx, a, checks)
}

func runDebugAudio(ctx context.Context, a *app, args []string) int {
	rest, ok := parse(newFlagSet("debug-audio"), args, 1)
	if !ok {
		return 1
	}
	return runChecks(ctx, a, []smoke.Check{smoke.DebugAudio(rest[0])})
}

func runStatus(ctx context.Context, a *app, args []string) int {
	if _, ok := parse(newFlagSet("status"), args, 0); !ok {
		return 1
	}
	c := client.New(a.cfg.ServerURL, a.httpClient, a.logger)
	smoke.PrintStatus(os.Stdout, smoke.Probe(ctx, c, a.cfg.FrontendURL), a.cfg.ServerURL, a.cfg.FrontendURL)
	return 0
}
