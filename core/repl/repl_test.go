package repl

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/gosh-shell/gosh/core/config"
	"github.com/gosh-shell/gosh/core/interp"
)

func testGetenv(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestHistoryFile(t *testing.T) {
	getenv := testGetenv(map[string]string{"HOME": "/home/tester"})

	t.Run("tilde expands from HOME", func(t *testing.T) {
		cfg := &config.Configuration{HistoryFile: "~/.gosh_history"}
		assert.Equal(t, "/home/tester/.gosh_history", historyFile(cfg, getenv))
	})

	t.Run("absolute path is untouched", func(t *testing.T) {
		cfg := &config.Configuration{HistoryFile: "/var/tmp/hist"}
		assert.Equal(t, "/var/tmp/hist", historyFile(cfg, getenv))
	})

	t.Run("unset HOME disables persistence", func(t *testing.T) {
		cfg := &config.Configuration{HistoryFile: "~/.gosh_history"}
		assert.Empty(t, historyFile(cfg, testGetenv(nil)))
	})

	t.Run("empty stays empty", func(t *testing.T) {
		assert.Empty(t, historyFile(&config.Configuration{}, getenv))
	})
}

func TestPrompt(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	in := &interp.Interp{
		Getenv: testGetenv(map[string]string{
			"HOME": "/home/tester",
			"USER": "tester",
		}),
		Getwd: func() (string, error) { return "/home/tester/src", nil },
	}

	r := &REPL{
		Interp: in,
		cfg:    &config.Configuration{Prompt: `[\u \w] `},
	}

	// Color is disabled off-terminal, so the rendering is plain text.
	assert.Equal(t, "[tester ~/src] ", r.prompt())
}
