//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
)

type GoCVDetector struct {
	KernelSize int
}

// NewGoCVDetector создаёт детектор цветных объектов на OpenCV.
func NewGoCVDetector() *GoCVDetector {
	return &GoCVDetector{KernelSize: kernelSize}
}

// Detect строит HSV-маску по всем поддиапазонам цвета, очищает её морфологией
// и классифицирует контуры по площади и соотношению сторон.
func (d *GoCVDetector) Detect(ctx context.Context, frame entity.Frame, rng entity.ColorRange, profile entity.ObjectClassProfile) ([]entity.Detection, error) {
	_ = ctx
	if err := validateInputs(frame, rng, profile); err != nil {
		return nil, err
	}

	hsv, err := toHSV(frame)
	if err != nil {
		return nil, err
	}
	defer hsv.Close()

	mask := buildMask(hsv, rng)
	defer mask.Close()

	// Открытие убирает точечный шум, закрытие заполняет мелкие разрывы.
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(d.KernelSize, d.KernelSize))
	defer kernel.Close()

	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(mask, &opened, gocv.MorphOpen, kernel)

	cleaned := gocv.NewMat()
	defer cleaned.Close()
	gocv.MorphologyEx(opened, &cleaned, gocv.MorphClose, kernel)

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()
	contours := gocv.FindContoursWithParams(cleaned, &hierarchy, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()

	dets := make([]entity.Detection, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		area := gocv.ContourArea(c)
		rect := gocv.BoundingRect(c)
		box := entity.BoundingBox{
			X:      rect.Min.X,
			Y:      rect.Min.Y,
			Width:  rect.Dx(),
			Height: rect.Dy(),
		}
		if !profile.Accepts(area, box) {
			continue
		}
		dets = append(dets, entity.Detection{
			Class: profile.Name,
			Color: rng.Name,
			Box:   box,
			Area:  area,
		})
	}

	entity.SortDetections(dets)
	return dets, nil
}

// Annotate рисует прямоугольники и подписи и возвращает новый кадр в BGR.
func (d *GoCVDetector) Annotate(frame entity.Frame, dets []entity.Detection) (entity.Frame, error) {
	if err := frame.Validate(); err != nil {
		return entity.Frame{}, err
	}

	mat, err := toBGR(frame)
	if err != nil {
		return entity.Frame{}, err
	}
	defer mat.Close()

	green := color.RGBA{G: 255, A: 255}
	for _, det := range dets {
		rect := image.Rect(det.Box.X, det.Box.Y, det.Box.X+det.Box.Width, det.Box.Y+det.Box.Height)
		gocv.Rectangle(&mat, rect, green, lineWidth)
		gocv.PutText(&mat, det.Label(), image.Pt(det.Box.X, det.Box.Y-labelOffset),
			gocv.FontHersheySimplex, fontScale, green, lineWidth)
	}

	return entity.Frame{
		Width:  mat.Cols(),
		Height: mat.Rows(),
		Order:  entity.OrderBGR,
		Pix:    mat.ToBytes(),
	}, nil
}

// FrameToMat возвращает копию кадра в виде BGR Mat; вызывающий закрывает Mat.
func FrameToMat(frame entity.Frame) (gocv.Mat, error) {
	if err := frame.Validate(); err != nil {
		return gocv.NewMat(), err
	}
	return toBGR(frame)
}

// buildMask объединяет маски всех поддиапазонов через побитовое ИЛИ.
func buildMask(hsv gocv.Mat, rng entity.ColorRange) gocv.Mat {
	total := gocv.NewMat()
	for i, p := range rng.Pairs {
		lower := gocv.NewScalar(float64(p.Lower.H), float64(p.Lower.S), float64(p.Lower.V), 0)
		upper := gocv.NewScalar(float64(p.Upper.H), float64(p.Upper.S), float64(p.Upper.V), 0)
		if i == 0 {
			gocv.InRangeWithScalar(hsv, lower, upper, &total)
			continue
		}
		piece := gocv.NewMat()
		gocv.InRangeWithScalar(hsv, lower, upper, &piece)
		gocv.BitwiseOr(total, piece, &total)
		piece.Close()
	}
	return total
}

// wrapFrame оборачивает буфер кадра в Mat без копирования; Mat только читается.
func wrapFrame(frame entity.Frame) (gocv.Mat, error) {
	mt := gocv.MatTypeCV8UC3
	if frame.Order.Channels() == 4 {
		mt = gocv.MatTypeCV8UC4
	}
	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, mt, frame.Pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("wrap frame: %w", err)
	}
	return mat, nil
}

// toBGR приводит кадр к отдельному Mat в порядке BGR.
func toBGR(frame entity.Frame) (gocv.Mat, error) {
	src, err := wrapFrame(frame)
	if err != nil {
		return src, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	switch frame.Order {
	case entity.OrderBGR:
		src.CopyTo(&dst)
	case entity.OrderRGB:
		gocv.CvtColor(src, &dst, gocv.ColorRGBToBGR)
	case entity.OrderRGBA:
		gocv.CvtColor(src, &dst, gocv.ColorRGBAToBGR)
	case entity.OrderBGRA:
		gocv.CvtColor(src, &dst, gocv.ColorBGRAToBGR)
	default:
		dst.Close()
		return gocv.NewMat(), &entity.InputError{Reason: fmt.Sprintf("unsupported channel layout %s", frame.Order)}
	}
	return dst, nil
}

// toHSV переводит кадр из родного порядка каналов в HSV.
func toHSV(frame entity.Frame) (gocv.Mat, error) {
	bgr, err := toBGR(frame)
	if err != nil {
		return bgr, err
	}
	defer bgr.Close()

	hsv := gocv.NewMat()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)
	return hsv, nil
}

var _ port.ObjectDetector = (*GoCVDetector)(nil)
