package model

import "strings"

// Language describes a target language the demo knows by name.
type Language struct {
	Code string
	Name string
	// DeepL is the DeepL target code, empty when DeepL has no such language.
	DeepL string
}

var languages = map[string]Language{
	"en": {Code: "en", Name: "English", DeepL: "EN-US"},
	"ta": {Code: "ta", Name: "Tamil"},
	"hi": {Code: "hi", Name: "Hindi"},
	"te": {Code: "te", Name: "Telugu"},
	"ml": {Code: "ml", Name: "Malayalam"},
	"kn": {Code: "kn", Name: "Kannada"},
	"es": {Code: "es", Name: "Spanish", DeepL: "ES"},
	"fr": {Code: "fr", Name: "French", DeepL: "FR"},
	"de": {Code: "de", Name: "German", DeepL: "DE"},
	"it": {Code: "it", Name: "Italian", DeepL: "IT"},
	"pt": {Code: "pt", Name: "Portuguese", DeepL: "PT-PT"},
	"ru": {Code: "ru", Name: "Russian", DeepL: "RU"},
	"ja": {Code: "ja", Name: "Japanese", DeepL: "JA"},
	"ko": {Code: "ko", Name: "Korean"},
	"zh": {Code: "zh", Name: "Chinese", DeepL: "ZH"},
	"nl": {Code: "nl", Name: "Dutch", DeepL: "NL"},
	"pl": {Code: "pl", Name: "Polish", DeepL: "PL"},
}

// AutoDetect is the source language value that asks a backend to detect it.
const AutoDetect = "auto"

// LookupLanguage returns the known language for code.
func LookupLanguage(code string) (Language, bool) {
	l, ok := languages[strings.ToLower(strings.TrimSpace(code))]
	return l, ok
}

// LanguageName returns the English name of code, or code itself when unknown.
func LanguageName(code string) string {
	if l, ok := LookupLanguage(code); ok {
		return l.Name
	}
	return code
}

// DeepLTarget maps code to a DeepL target code. Languages DeepL does not
// offer fall back to EN-US.
func DeepLTarget(code string) string {
	if l, ok := LookupLanguage(code); ok && l.DeepL != "" {
		return l.DeepL
	}
	return "EN-US"
}

// Tag renders the "[TA]" prefix used when a translation could not be made.
func Tag(code string) string {
	return "[" + strings.ToUpper(code) + "]"
}
