package media

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
)

// LoadFrame читает изображение с диска (JPEG, PNG, GIF, BMP, TIFF) в кадр с порядком order.
func LoadFrame(path string, order entity.ChannelOrder) (entity.Frame, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return entity.Frame{}, errors.Wrapf(err, "open image %s", path)
	}
	return FrameFromImage(img, order), nil
}

// SaveFrame сохраняет кадр; формат выбирается по расширению файла.
func SaveFrame(path string, frame entity.Frame) error {
	if err := frame.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create image dir")
	}
	if err := imaging.Save(FrameToImage(frame), path); err != nil {
		return errors.Wrapf(err, "save image %s", path)
	}
	return nil
}

// EncodeJPEG кодирует кадр в JPEG с заданным качеством.
func EncodeJPEG(frame entity.Frame, quality int) ([]byte, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, FrameToImage(frame), imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, errors.Wrap(err, "encode jpeg")
	}
	return buf.Bytes(), nil
}

// FrameToImage возвращает RGBA-копию кадра.
func FrameToImage(frame entity.Frame) *image.NRGBA {
	return imaging.Clone(frame.ToImage())
}

// FrameFromImage переводит изображение в кадр с порядком order.
func FrameFromImage(img image.Image, order entity.ChannelOrder) entity.Frame {
	return entity.FrameFromImage(imaging.Clone(img), order)
}

// StillSource отдаёт один и тот же кадр при каждом чтении.
type StillSource struct {
	frame entity.Frame
}

// NewStillSource создаёт источник из готового кадра.
func NewStillSource(frame entity.Frame) *StillSource {
	return &StillSource{frame: frame}
}

func (s *StillSource) Read(ctx context.Context) (entity.Frame, error) {
	if err := ctx.Err(); err != nil {
		return entity.Frame{}, err
	}
	return s.frame.Clone(), nil
}

func (s *StillSource) Close() error { return nil }

var _ port.FrameSource = (*StillSource)(nil)
