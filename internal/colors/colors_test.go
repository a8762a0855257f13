package colors

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = true
	on := true
	Init(&on)
	assert.False(t, color.NoColor)
	assert.True(t, Enabled())

	off := false
	Init(&off)
	assert.True(t, color.NoColor)
	assert.False(t, Enabled())

	Init(nil)
	assert.True(t, color.NoColor, "nil keeps the current setting")
}

func TestPalette(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = true
	for name, fn := range map[string]func(...any) string{
		"Title":  Title,
		"Module": Module,
		"Class":  Class,
		"Type":   Type,
		"OK":     OK,
		"Stale":  Stale,
		"Note":   Note,
	} {
		assert.Equal(t, "foundation", fn("foundation"), name)
	}
}
