package qrcode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	goqrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultSize = 256

	labelHeight  = 24
	labelPadding = 6
)

// Generate renders content as a square PNG QR code of size pixels.
func Generate(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	data, err := goqrcode.Encode(content, goqrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return data, nil
}

// GenerateWithLabel renders the QR code with label printed underneath, so a
// printed badge can be matched to its owner at a glance.
func GenerateWithLabel(content, label string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	qr, err := goqrcode.New(content, goqrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	code := qr.Image(size)

	canvas := image.NewRGBA(image.Rect(0, 0, size, size+labelHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, 0, size, size), code, code.Bounds().Min, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	label = fitLabel(drawer, label, size-2*labelPadding)
	width := drawer.MeasureString(label).Round()
	drawer.Dot = fixed.P((size-width)/2, size+labelHeight-labelPadding-face.Descent)
	drawer.DrawString(label)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// fitLabel trims label until it fits within maxWidth pixels.
func fitLabel(d *font.Drawer, label string, maxWidth int) string {
	runes := []rune(label)
	for len(runes) > 0 && d.MeasureString(string(runes)).Round() > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
