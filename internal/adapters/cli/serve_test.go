package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/agroinsight-go/internal/infrastructure/config"
)

func TestMissingKeyWarnings(t *testing.T) {
	// Arrange
	cfg := &config.Config{}

	// Act
	warnings := missingKeyWarnings(cfg)

	// Assert
	assert.Equal(t, []string{
		"AGMARKNET_API_KEY is not set, market and price endpoints will return 500",
		"OPENWEATHER_API_KEY is not set, weather and irrigation-tips endpoints will return 500",
	}, warnings)
}

func TestMissingKeyWarnings_AllKeysSet(t *testing.T) {
	cfg := &config.Config{}
	cfg.Agmarknet.APIKey = "agmark-key"
	cfg.Weather.APIKey = "owm-key"

	assert.Empty(t, missingKeyWarnings(cfg))
}
