//go:build !gocv
// +build !gocv

package media

import (
	"context"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
)

type Camera struct{}

// OpenCamera без OpenCV недоступна.
func OpenCamera(device, width, height int, fps float64) (*Camera, error) {
	return nil, ErrBackendDisabled
}

func (c *Camera) Size() (width, height int) { return 0, 0 }

func (c *Camera) Read(ctx context.Context) (entity.Frame, error) {
	return entity.Frame{}, ErrBackendDisabled
}

func (c *Camera) Close() error { return nil }

type VideoWriter struct{}

// CreateVideoWriter без OpenCV недоступен.
func CreateVideoWriter(path, codec string, fps float64, width, height int) (*VideoWriter, error) {
	return nil, ErrBackendDisabled
}

func (w *VideoWriter) Write(frame entity.Frame) error { return ErrBackendDisabled }
func (w *VideoWriter) Path() string                   { return "" }
func (w *VideoWriter) Frames() int                    { return 0 }
func (w *VideoWriter) Close() error                   { return nil }

var (
	_ port.FrameSource = (*Camera)(nil)
	_ port.FrameSink   = (*VideoWriter)(nil)
)
