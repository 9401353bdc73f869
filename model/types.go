package model

// AudioChunk represents a chunk of raw audio data.
type AudioChunk []byte

// Transcript is text produced by a transcription service.
type Transcript struct {
	Text string
	// Source names the transcriber that produced Text.
	Source string
	// Fallback is set when Text did not come from the preferred transcriber.
	Fallback bool
}

// Translation is the outcome of translating one piece of text.
type Translation struct {
	SourceText string
	Text       string
	SourceLang string
	TargetLang string
	Backend    string
	Fallback   bool
}

// Speech points at a synthesized audio file on disk.
type Speech struct {
	Path     string
	Engine   string
	Language string
	Fallback bool
}
