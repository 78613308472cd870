package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetGravatarURLNormalizesEmail(t *testing.T) {
	a := GetGravatarURL("Trader@Example.com ", 80)
	b := GetGravatarURL("trader@example.com", 80)
	assert.Equal(t, a, b)
	assert.Contains(t, a, "s=80")
}

func TestGetGravatarURLDefaultSize(t *testing.T) {
	url := GetGravatarURL("trader@example.com", 0)
	assert.Contains(t, url, "s=200")
}
