package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewFromConfigValuesParsesLevels(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, NewFromConfigValues("trace", FormatConsole).GetLevel())
	assert.Equal(t, zerolog.WarnLevel, NewFromConfigValues("warn", FormatJSON).GetLevel())
}

func TestNewFromConfigValuesFallsBackToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, NewFromConfigValues("", "").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewFromConfigValues("shouting", "morse").GetLevel())
}

func TestNewFromEnvReadsOverrides(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvFormat, FormatJSON)

	assert.Equal(t, zerolog.DebugLevel, NewFromEnv().GetLevel())
}
