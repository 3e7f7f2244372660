//go:build gocv
// +build gocv

package media

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
)

// Camera источник кадров с устройства видеозахвата. Кадры отдаются в BGR.
type Camera struct {
	mu     sync.Mutex
	webcam *gocv.VideoCapture
	img    gocv.Mat
}

// OpenCamera открывает устройство и запрашивает размер кадра и частоту.
func OpenCamera(device, width, height int, fps float64) (*Camera, error) {
	webcam, err := gocv.VideoCaptureDevice(device)
	if err != nil {
		return nil, errors.Wrapf(err, "open camera %d", device)
	}
	webcam.Set(gocv.VideoCaptureFrameWidth, float64(width))
	webcam.Set(gocv.VideoCaptureFrameHeight, float64(height))
	if fps > 0 {
		webcam.Set(gocv.VideoCaptureFPS, fps)
	}
	return &Camera{webcam: webcam, img: gocv.NewMat()}, nil
}

// Size возвращает фактический размер кадра, выбранный драйвером.
func (c *Camera) Size() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int(c.webcam.Get(gocv.VideoCaptureFrameWidth)), int(c.webcam.Get(gocv.VideoCaptureFrameHeight))
}

// Read читает следующий кадр.
func (c *Camera) Read(ctx context.Context) (entity.Frame, error) {
	if err := ctx.Err(); err != nil {
		return entity.Frame{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ok := c.webcam.Read(&c.img); !ok || c.img.Empty() {
		return entity.Frame{}, ErrNoFrame
	}
	return entity.Frame{
		Width:  c.img.Cols(),
		Height: c.img.Rows(),
		Order:  entity.OrderBGR,
		Pix:    c.img.ToBytes(),
	}, nil
}

func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.img.Close()
	return c.webcam.Close()
}

var _ port.FrameSource = (*Camera)(nil)
