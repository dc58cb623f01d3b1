package lib

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderQrPNG(t *testing.T) {
	png, err := RenderQrPNG("EVT1-TT2-0123456789ABCDEF")
	assert.Nil(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))
}
