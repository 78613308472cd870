package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBotName(t *testing.T) {
	assert.Equal(t, "Bollinger-Pro", NormalizeBotName("Bollinger-Pro (Trial)"))
	assert.Equal(t, "Bollinger-Pro", NormalizeBotName("Bollinger-Pro"))
	// only a trailing suffix is stripped
	assert.Equal(t, "Bollinger (Trial) Pro", NormalizeBotName("Bollinger (Trial) Pro"))
}

func TestBotIsTrialInstance(t *testing.T) {
	trial := &Bot{Name: "Timer-Starter (Trial)"}
	assert.True(t, trial.IsTrialInstance())
	assert.Equal(t, "Timer-Starter", trial.NormalizedName())

	paid := &Bot{Name: "Timer-Starter"}
	assert.False(t, paid.IsTrialInstance())
	assert.Equal(t, "Timer-Starter", paid.NormalizedName())
}
