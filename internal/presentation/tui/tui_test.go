package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
	assert.Contains(t, buf.String(), "|_| |_|")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("Of course, _which door?_")
	require.NoError(t, err)
	assert.Contains(t, out, "which door?")
}
