// Package tof читает матрицу расстояний 8×8 с ToF-дальномера по шине I²C.
package tof

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
)

// Формат кадра датчика: два байта заголовка 0x5A, два служебных байта,
// затем 64 байта матрицы построчно.
const (
	FrameSize    = 68
	headerByte   = 0x5A
	payloadStart = 4
)

// ErrBadFrame заголовок кадра не совпал или кадр короче ожидаемого.
var ErrBadFrame = entity.ErrBadFrame

// Sensor ToF-датчик на шине I²C.
type Sensor struct {
	mu     sync.Mutex
	dev    *i2c.Dev
	closer io.Closer
}

// Open инициализирует драйверы хоста и открывает шину busName ("1" для /dev/i2c-1).
func Open(busName string, addr uint16) (*Sensor, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "init periph host")
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", busName)
	}
	s := NewSensor(bus, addr)
	s.closer = bus
	return s, nil
}

// NewSensor создаёт датчик поверх уже открытой шины; шину закрывает вызывающий.
func NewSensor(bus i2c.Bus, addr uint16) *Sensor {
	return &Sensor{dev: &i2c.Dev{Bus: bus, Addr: addr}}
}

// ReadMatrix выполняет одно чтение 68 байт и разбирает кадр.
func (s *Sensor) ReadMatrix(ctx context.Context) (entity.DepthMatrix, error) {
	if err := ctx.Err(); err != nil {
		return entity.DepthMatrix{}, err
	}

	buf := make([]byte, FrameSize)
	s.mu.Lock()
	err := s.dev.Tx(nil, buf)
	s.mu.Unlock()
	if err != nil {
		return entity.DepthMatrix{}, errors.Wrapf(err, "read tof frame at %#x", s.dev.Addr)
	}
	return ParseFrame(buf)
}

func (s *Sensor) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// ParseFrame проверяет заголовок и раскладывает байты 4..67 в матрицу.
func ParseFrame(data []byte) (entity.DepthMatrix, error) {
	var m entity.DepthMatrix
	if len(data) < FrameSize {
		return m, fmt.Errorf("%w: %d bytes", ErrBadFrame, len(data))
	}
	if data[0] != headerByte || data[1] != headerByte {
		return m, fmt.Errorf("%w: header %#02x %#02x", ErrBadFrame, data[0], data[1])
	}
	for i, v := range data[payloadStart:FrameSize] {
		m[i/entity.DepthSide][i%entity.DepthSide] = v
	}
	return m, nil
}

var _ port.DepthSensor = (*Sensor)(nil)
