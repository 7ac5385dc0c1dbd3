package tuitest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[31mred\x1b[0m   \nplain  \n\n"
	assert.Equal(t, "red\nplain", StripANSI(in))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "enter", Key("enter").String())
	assert.Equal(t, "esc", Key("esc").String())
	assert.Equal(t, "ctrl+c", Key("ctrl+c").String())
	assert.Equal(t, "x", Key("x").String())
	assert.Equal(t, tea.KeyRunes, Key("x").Type)
}
