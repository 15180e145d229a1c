package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hoangminh/cardbox/internal/models"
)

var (
	fontOnce     sync.Once
	parsedGoFont *opentype.Font
	parsedGoErr  error
)

// RenderCardPreviewPNG renders the link-unfurl preview for a card: the two
// names joined by a heart on a blush background, sized for OpenGraph.
func RenderCardPreviewPNG(card models.Card) ([]byte, error) {
	const width = 1200
	const height = 630

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{0xFD, 0xF0, 0xF3, 0xFF}}, image.Point{}, draw.Src)

	frame := image.Rect(40, 40, width-40, height-40)
	drawFrame(img, frame, 3, color.RGBA{0xD9, 0x4F, 0x70, 0xFF})

	titleFace, err := newFontFace(72)
	if err != nil {
		return nil, err
	}
	defer func() { _ = titleFace.Close() }()

	subtitleFace, err := newFontFace(32)
	if err != nil {
		return nil, err
	}
	defer func() { _ = subtitleFace.Close() }()

	title := fmt.Sprintf("%s ♥ %s", card.Name1, card.Name2)
	drawCenteredText(img, titleFace, width/2, height/2-10, title, color.RGBA{0x8C, 0x2F, 0x45, 0xFF})

	subtitle := "A card is waiting for you"
	drawCenteredText(img, subtitleFace, width/2, height/2+70, subtitle, color.RGBA{0xB0, 0x6A, 0x7C, 0xFF})

	if !card.CreatedAt.IsZero() {
		dateFace, err := newFontFace(24)
		if err != nil {
			return nil, err
		}
		defer func() { _ = dateFace.Close() }()
		drawCenteredText(img, dateFace, width/2, height-90,
			card.CreatedAt.Format("January 2, 2006"), color.RGBA{0xC4, 0x8A, 0x97, 0xFF})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func newFontFace(size float64) (*opentype.Face, error) {
	fontOnce.Do(func() {
		parsedGoFont, parsedGoErr = opentype.Parse(goregular.TTF)
	})
	if parsedGoErr != nil {
		return nil, fmt.Errorf("parse font: %w", parsedGoErr)
	}
	face, err := opentype.NewFace(parsedGoFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("load font face: %w", err)
	}
	otFace, ok := face.(*opentype.Face)
	if !ok {
		return nil, fmt.Errorf("load font face: unexpected type")
	}
	return otFace, nil
}

func drawCenteredText(img draw.Image, face font.Face, centerX, baselineY int, text string, clr color.Color) {
	width := font.MeasureString(face, text).Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: face,
		Dot:  fixed.P(centerX-width/2, baselineY),
	}
	d.DrawString(text)
}

func drawFrame(img draw.Image, rect image.Rectangle, width int, clr color.Color) {
	border := image.NewUniform(clr)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+width), border, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-width, rect.Max.X, rect.Max.Y), border, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+width, rect.Max.Y), border, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-width, rect.Min.Y, rect.Max.X, rect.Max.Y), border, image.Point{}, draw.Src)
}
