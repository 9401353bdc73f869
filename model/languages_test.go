package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Tamil", LanguageName("ta"))
	assert.Equal(t, "Tamil", LanguageName(" TA "))
	assert.Equal(t, "xx", LanguageName("xx"))
}

func TestDeepLTarget(t *testing.T) {
	tests := map[string]string{
		"en": "EN-US",
		"pt": "PT-PT",
		"de": "DE",
		"ta": "EN-US",
		"zz": "EN-US",
	}
	for code, want := range tests {
		assert.Equal(t, want, DeepLTarget(code), code)
	}
}

func TestTag(t *testing.T) {
	assert.Equal(t, "[TA]", Tag("ta"))
}
