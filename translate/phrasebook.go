package translate

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoPhrase is returned when the phrasebook has nothing for the input.
var ErrNoPhrase = errors.New("no phrasebook entry")

type phrase struct {
	english    string
	translated string
}

// Multi-word phrases come first so they win over the single words.
var phrasebook = map[string][]phrase{
	"ta": {
		{"good morning", "காலை வணக்கம்"},
		{"how are you", "எப்படி இருக்கிறீர்கள்"},
		{"thank you", "நன்றி"},
		{"hello", "வணக்கம்"},
		{"yes", "ஆம்"},
		{"no", "இல்லை"},
	},
	"hi": {
		{"good morning", "सुप्रभात"},
		{"how are you", "आप कैसे हैं"},
		{"thank you", "धन्यवाद"},
		{"hello", "नमस्ते"},
		{"yes", "हाँ"},
		{"no", "नहीं"},
	},
	"fr": {
		{"good morning", "Bonjour"},
		{"how are you", "Comment allez-vous"},
		{"thank you", "Merci"},
		{"hello", "Bonjour"},
		{"yes", "Oui"},
		{"no", "Non"},
	},
	"es": {
		{"good morning", "Buenos días"},
		{"how are you", "Cómo estás"},
		{"thank you", "Gracias"},
		{"hello", "Hola"},
		{"yes", "Sí"},
		{"no", "No"},
	},
}

// Phrasebook is an offline dictionary of a handful of greetings. It answers
// with the first phrase contained in the input.
type Phrasebook struct{}

func (Phrasebook) Name() string { return "phrasebook" }

func (Phrasebook) Translate(_ context.Context, text, _, target string) (string, error) {
	entries, ok := phrasebook[strings.ToLower(target)]
	if !ok {
		return "", ErrNoPhrase
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, p := range entries {
		if containsWord(lower, p.english) {
			return p.translated, nil
		}
	}
	return "", ErrNoPhrase
}

// PhrasebookLanguages lists the targets the phrasebook covers.
func PhrasebookLanguages() []string {
	langs := make([]string, 0, len(phrasebook))
	for l := range phrasebook {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// containsWord matches phrase on word boundaries so "no" does not hit "know".
func containsWord(s, phrase string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], phrase)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(phrase)
		if (start == 0 || !isLetter(s[start-1])) && (end == len(s) || !isLetter(s[end])) {
			return true
		}
		i = start + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
