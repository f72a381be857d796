package report

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// go-chart renders one chart per image and has no subplot or table
// primitive, so multi-panel artifacts are composed here: each panel is
// rendered to PNG bytes and the panels are drawn side by side (or
// stacked) on a shared background.

func decodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode panel: %w", err)
	}
	return img, nil
}

func compositeHorizontal(background drawing.Color, panels ...[]byte) ([]byte, error) {
	images := make([]image.Image, len(panels))
	width, height := 0, 0
	for i, p := range panels {
		img, err := decodePNG(p)
		if err != nil {
			return nil, err
		}
		images[i] = img
		width += img.Bounds().Dx()
		if h := img.Bounds().Dy(); h > height {
			height = h
		}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	x := 0
	for _, img := range images {
		bounds := image.Rect(x, 0, x+img.Bounds().Dx(), img.Bounds().Dy())
		draw.Draw(canvas, bounds, img, img.Bounds().Min, draw.Over)
		x += img.Bounds().Dx()
	}

	return encodePNG(canvas)
}

func compositeVertical(background drawing.Color, panels ...[]byte) ([]byte, error) {
	images := make([]image.Image, len(panels))
	width, height := 0, 0
	for i, p := range panels {
		img, err := decodePNG(p)
		if err != nil {
			return nil, err
		}
		images[i] = img
		height += img.Bounds().Dy()
		if w := img.Bounds().Dx(); w > width {
			width = w
		}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	y := 0
	for _, img := range images {
		// Center narrower panels.
		x := (width - img.Bounds().Dx()) / 2
		bounds := image.Rect(x, y, x+img.Bounds().Dx(), y+img.Bounds().Dy())
		draw.Draw(canvas, bounds, img, img.Bounds().Min, draw.Over)
		y += img.Bounds().Dy()
	}

	return encodePNG(canvas)
}

// overlay draws the top image onto the base, aligned at the same origin.
func overlay(base, top []byte) ([]byte, error) {
	baseImg, err := decodePNG(base)
	if err != nil {
		return nil, err
	}
	topImg, err := decodePNG(top)
	if err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(baseImg.Bounds())
	draw.Draw(canvas, canvas.Bounds(), baseImg, baseImg.Bounds().Min, draw.Src)
	draw.Draw(canvas, topImg.Bounds(), topImg, topImg.Bounds().Min, draw.Over)
	return encodePNG(canvas)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func writeArtifact(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// renderLegendStrip draws one centered row of swatch+label pairs on a
// white strip, the shared legend of the comparison panels.
func renderLegendStrip(width, height int, names []string) ([]byte, error) {
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, fmt.Errorf("create legend renderer: %w", err)
	}

	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load default font: %w", err)
	}
	r.SetFont(font)
	r.SetFontSize(14)
	r.SetFontColor(drawing.ColorBlack)

	fillRect(r, 0, 0, width, height, drawing.ColorWhite)

	const (
		swatch  = 14
		padding = 8
		gap     = 24
	)

	total := 0
	labelWidths := make([]int, len(names))
	for i, name := range names {
		labelWidths[i] = r.MeasureText(name).Width()
		total += swatch + padding + labelWidths[i]
	}
	total += gap * (len(names) - 1)

	x := (width - total) / 2
	if x < 0 {
		x = 0
	}
	y := height / 2
	for i, name := range names {
		fillRect(r, x, y-swatch/2, swatch, swatch, paletteColor(i))
		x += swatch + padding
		r.Text(name, x, y+swatch/2)
		x += labelWidths[i] + gap
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("save legend strip: %w", err)
	}
	return buf.Bytes(), nil
}

func fillRect(r chart.Renderer, x, y, w, h int, color drawing.Color) {
	r.SetFillColor(color)
	r.MoveTo(x, y)
	r.LineTo(x+w, y)
	r.LineTo(x+w, y+h)
	r.LineTo(x, y+h)
	r.Close()
	r.Fill()
}
