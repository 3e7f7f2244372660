//go:build gocv
// +build gocv

package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
	"pi-vision/internal/infrastructure/vision"
)

// VideoWriter пишет кадры фиксированного размера в видеофайл.
type VideoWriter struct {
	mu     sync.Mutex
	writer *gocv.VideoWriter
	path   string
	width  int
	height int
	frames int
}

// CreateVideoWriter создаёт каталог и открывает файл с кодеком codec (например, mp4v).
func CreateVideoWriter(path, codec string, fps float64, width, height int) (*VideoWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create video dir")
	}
	writer, err := gocv.VideoWriterFile(path, codec, fps, width, height, true)
	if err != nil {
		return nil, errors.Wrapf(err, "open video writer %s", path)
	}
	if !writer.IsOpened() {
		writer.Close()
		return nil, errors.Errorf("video writer %s is not opened (codec %s)", path, codec)
	}
	return &VideoWriter{writer: writer, path: path, width: width, height: height}, nil
}

// Write кодирует кадр; кадр другого размера отклоняется.
func (w *VideoWriter) Write(frame entity.Frame) error {
	if frame.Width != w.width || frame.Height != w.height {
		return &entity.InputError{Reason: fmt.Sprintf("frame %dx%d does not match video %dx%d",
			frame.Width, frame.Height, w.width, w.height)}
	}
	mat, err := vision.FrameToMat(frame)
	if err != nil {
		return err
	}
	defer mat.Close()

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writer.Write(mat); err != nil {
		return errors.Wrapf(err, "write frame %d", w.frames)
	}
	w.frames++
	return nil
}

// Path возвращает путь к файлу записи.
func (w *VideoWriter) Path() string { return w.path }

// Frames возвращает число записанных кадров.
func (w *VideoWriter) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

func (w *VideoWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writer.Close()
}

var _ port.FrameSink = (*VideoWriter)(nil)
