package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelCredentialGate(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	assert.False(t, hasModelCredentials())

	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	assert.True(t, hasModelCredentials(), "an OpenRouter-only setup boots")

	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	assert.True(t, hasModelCredentials())
}
