package qrcode

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

func TestGenerate_ProducesSquarePNG(t *testing.T) {
	data, err := Generate("EMP_ACME_7", 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
	assert.Equal(t, DefaultSize, img.Bounds().Dy())
}

func TestGenerateWithLabel_AddsCaptionStrip(t *testing.T) {
	data, err := GenerateWithLabel("EMP_ACME_7", "Ana Quispe - EMP_ACME_7", 200)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 200+labelHeight, img.Bounds().Dy())
}

func TestFitLabel_TrimsToWidth(t *testing.T) {
	d := &font.Drawer{Face: basicfont.Face7x13}
	long := strings.Repeat("x", 100)

	got := fitLabel(d, long, 70)

	assert.Equal(t, 10, len(got))
	assert.Equal(t, "short", fitLabel(d, "short", 70))
}
