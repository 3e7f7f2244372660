package media

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// ErrBackendDisabled возвращается конструкторами камеры и видеозаписи без тега gocv.
var ErrBackendDisabled = errors.New("gocv build tag is not enabled")

// ErrNoFrame камера не вернула кадр.
var ErrNoFrame = errors.New("camera returned no frame")

// VideoPath строит имя файла записи: <dir>/<prefix>_<время>.mp4.
func VideoPath(dir, prefix string, at time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.mp4", prefix, at.Format("20060102_150405")))
}
