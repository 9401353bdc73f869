// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DefaultServerURL       = "http://localhost:5000"
	DefaultFrontendURL     = "http://localhost:3000"
	DefaultAzureEndpoint   = "https://api.cognitive.microsofttranslator.com"
	DefaultAzureRegion     = "eastus"
	DefaultDeepLURL        = "https://api-free.deepl.com"
	DefaultOpenAIModel     = "gpt-3.5-turbo"
	DefaultGeminiModel     = "gemini-2.0-flash-exp"
	DefaultElevenLabsVoice = "JBFqnCBsd6RMkjVDRZzb"
	DefaultAudioDir        = "public"
	DefaultHTTPTimeout     = 30 * time.Second
)

// Config holds every knob the commands read. Empty credentials disable the
// backend that needs them.
type Config struct {
	ServerURL   string
	FrontendURL string
	HTTPTimeout time.Duration

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	GeminiAPIKey string
	GeminiModel  string

	AzureKey      string
	AzureRegion   string
	AzureEndpoint string

	DeepLAPIKey string
	DeepLURL    string

	DeepgramAPIKey string

	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string

	TranslateBackends []string
	STTBackends       []string
	TTSEngine         string

	EspeakBin string
	FFmpegBin string
	AudioDir  string

	S3 S3Config
}

// S3Config describes the optional bucket synthesized audio is published to.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Secure    bool
}

// Enabled reports whether enough is set to talk to a bucket.
func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	timeout, err := durationEnv("HTTP_TIMEOUT", DefaultHTTPTimeout)
	if err != nil {
		return nil, err
	}
	secure, err := boolEnv("S3_SECURE", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerURL:   strings.TrimRight(getEnv("SERVER_URL", DefaultServerURL), "/"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", DefaultFrontendURL), "/"),
		HTTPTimeout: timeout,

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:   getEnv("OPENAI_MODEL", DefaultOpenAIModel),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", DefaultGeminiModel),

		AzureKey:      os.Getenv("AZURE_TRANSLATOR_KEY"),
		AzureRegion:   getEnv("AZURE_TRANSLATOR_REGION", DefaultAzureRegion),
		AzureEndpoint: getEnv("AZURE_TRANSLATOR_ENDPOINT", DefaultAzureEndpoint),

		DeepLAPIKey: os.Getenv("DEEPL_API_KEY"),
		DeepLURL:    getEnv("DEEPL_API_URL", DefaultDeepLURL),

		DeepgramAPIKey: os.Getenv("DEEPGRAM_API_KEY"),

		ElevenLabsAPIKey:  os.Getenv("ELEVEN_LABS_API_KEY"),
		ElevenLabsVoiceID: getEnv("ELEVEN_LABS_VOICE_ID", DefaultElevenLabsVoice),

		TranslateBackends: listEnv("TRANSLATE_BACKENDS", []string{"openai", "google", "phrasebook"}),
		STTBackends:       listEnv("STT_BACKENDS", []string{"deepgram", "whisper", "offline"}),
		TTSEngine:         getEnv("TTS_ENGINE", "espeak"),

		EspeakBin: getEnv("ESPEAK_BIN", "espeak-ng"),
		FFmpegBin: getEnv("FFMPEG_BIN", "ffmpeg"),
		AudioDir:  getEnv("AUDIO_DIR", DefaultAudioDir),

		S3: S3Config{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
			Secure:    secure,
		},
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func listEnv(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.Wrapf(err, "parse %s", key)
	}
	return b, nil
}
