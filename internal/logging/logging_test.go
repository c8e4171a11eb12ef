package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

// useGlobal points the global logger at buf for the duration of the test.
func useGlobal(t *testing.T, buf *bytes.Buffer) {
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})
	SetupTo(buf, "debug", "json")
}

func TestOrGlobal_ZeroLoggerUsesGlobal(t *testing.T) {
	var buf bytes.Buffer
	useGlobal(t, &buf)

	var zero zerolog.Logger
	l := OrGlobal(zero)
	l.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestOrGlobal_KeepsConfiguredLogger(t *testing.T) {
	var global, own bytes.Buffer
	useGlobal(t, &global)

	l := OrGlobal(zerolog.New(&own))
	l.Info().Msg("mine")
	assert.Contains(t, own.String(), "mine")
	assert.Empty(t, global.String())

	nop := OrGlobal(zerolog.Nop())
	nop.Info().Msg("quiet")
	assert.Empty(t, global.String())
}

func TestSetupTo_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	useGlobal(t, &buf)

	SetupTo(&buf, "warn", "json")
	log.Info().Msg("dropped")
	log.Warn().Msg("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	SetupTo(&buf, "bogus", "console")
	log.Info().Msg("console line")
	assert.Contains(t, buf.String(), "console line")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
