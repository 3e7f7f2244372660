package vision

import (
	"image"
	"image/color"

	"pi-vision/internal/domain/entity"
)

var (
	pureRed   = color.RGBA{R: 255, A: 255}
	deepRed   = color.RGBA{R: 255, B: 42, A: 255} // тон ≈350°, в шкале OpenCV 175
	pureBlue  = color.RGBA{B: 255, A: 255}
	yellow    = color.RGBA{R: 255, G: 255, A: 255}
	black     = color.RGBA{A: 255}
	white     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	redRange  = entity.ColorRange{Name: "RED", Pairs: []entity.HSVPair{entity.Pair(0, 120, 70, 10, 255, 255), entity.Pair(170, 120, 70, 180, 255, 255)}}
	blueRange = entity.ColorRange{Name: "BLUE", Pairs: []entity.HSVPair{entity.Pair(100, 150, 0, 140, 255, 255)}}
	yellowRng = entity.ColorRange{Name: "YELLOW", Pairs: []entity.HSVPair{entity.Pair(20, 100, 100, 35, 255, 255)}}
	greenRng  = entity.ColorRange{Name: "GREEN", Pairs: []entity.HSVPair{entity.Pair(40, 40, 40, 90, 255, 255)}}
	ball      = entity.ObjectClassProfile{Name: "BALL", MinArea: 100, AspectMin: 0.9, AspectMax: 1.1, CheckAspect: true}
	bucket    = entity.ObjectClassProfile{Name: "BUCKET", MinArea: 2000, AspectMin: 1.3, AspectMax: 3.5, CheckAspect: true}
)

// solidFrame создаёт однотонный кадр в порядке BGR.
func solidFrame(w, h int, c color.RGBA) entity.Frame {
	f := entity.NewFrame(w, h, entity.OrderBGR)
	f.FillRect(image.Rect(0, 0, w, h), c)
	return f
}

// withRect возвращает копию кадра с закрашенным прямоугольником.
func withRect(f entity.Frame, r image.Rectangle, c color.RGBA) entity.Frame {
	out := f.Clone()
	out.FillRect(r, c)
	return out
}
