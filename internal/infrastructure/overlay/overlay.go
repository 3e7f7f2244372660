// Package overlay рисует рамки детекций средствами чистого Go (без OpenCV).
package overlay

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"pi-vision/internal/domain/entity"
)

const (
	lineWidth   = 2
	labelOffset = 10
)

var boxColor = color.RGBA{G: 255, A: 255}

// Draw рисует рамки и подписи детекций на копии изображения.
func Draw(img image.Image, dets []entity.Detection) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetColor(boxColor)
	dc.SetLineWidth(lineWidth)
	for _, d := range dets {
		dc.DrawRectangle(float64(d.Box.X), float64(d.Box.Y), float64(d.Box.Width), float64(d.Box.Height))
		dc.Stroke()
		dc.DrawString(d.Label(), float64(d.Box.X), float64(d.Box.Y-labelOffset))
	}
	return dc.Image()
}

// DrawFrame возвращает аннотированную копию кадра в порядке BGR.
func DrawFrame(frame entity.Frame, dets []entity.Detection) (entity.Frame, error) {
	if err := frame.Validate(); err != nil {
		return entity.Frame{}, err
	}
	return entity.FrameFromImage(Draw(frame.ToImage(), dets), entity.OrderBGR), nil
}
