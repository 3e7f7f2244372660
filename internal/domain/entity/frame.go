package entity

import (
	"fmt"
	"image"
	"image/color"
)

// ChannelOrder порядок каналов в буфере кадра.
type ChannelOrder int

const (
	OrderRGB ChannelOrder = iota + 1
	OrderBGR
	OrderRGBA
	OrderBGRA
)

// Channels возвращает число байт на пиксель, 0 для неизвестного порядка.
func (o ChannelOrder) Channels() int {
	switch o {
	case OrderRGB, OrderBGR:
		return 3
	case OrderRGBA, OrderBGRA:
		return 4
	default:
		return 0
	}
}

func (o ChannelOrder) String() string {
	switch o {
	case OrderRGB:
		return "RGB"
	case OrderBGR:
		return "BGR"
	case OrderRGBA:
		return "RGBA"
	case OrderBGRA:
		return "BGRA"
	default:
		return fmt.Sprintf("ChannelOrder(%d)", int(o))
	}
}

// Frame плотно упакованный буфер пикселей фиксированного размера.
type Frame struct {
	Width  int
	Height int
	Order  ChannelOrder
	Pix    []byte
}

// NewFrame выделяет чёрный кадр заданного размера.
func NewFrame(width, height int, order ChannelOrder) Frame {
	return Frame{
		Width:  width,
		Height: height,
		Order:  order,
		Pix:    make([]byte, width*height*order.Channels()),
	}
}

// Validate проверяет размер кадра, порядок каналов и длину буфера.
func (f Frame) Validate() error {
	if f.Pix == nil {
		return &InputError{Reason: "frame is nil"}
	}
	if f.Width <= 0 || f.Height <= 0 {
		return &InputError{Reason: fmt.Sprintf("frame is zero-sized (%dx%d)", f.Width, f.Height)}
	}
	ch := f.Order.Channels()
	if ch == 0 {
		return &InputError{Reason: fmt.Sprintf("unsupported channel layout %s", f.Order)}
	}
	if want := f.Width * f.Height * ch; len(f.Pix) != want {
		return &InputError{Reason: fmt.Sprintf("buffer has %d bytes, want %d", len(f.Pix), want)}
	}
	return nil
}

// Clone возвращает независимую копию кадра.
func (f Frame) Clone() Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	f.Pix = pix
	return f
}

// At возвращает цвет пикселя (x, y) независимо от порядка каналов.
func (f Frame) At(x, y int) color.RGBA {
	ch := f.Order.Channels()
	i := (y*f.Width + x) * ch
	p := f.Pix[i : i+ch]
	switch f.Order {
	case OrderRGB:
		return color.RGBA{R: p[0], G: p[1], B: p[2], A: 255}
	case OrderBGR:
		return color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	case OrderRGBA:
		return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	default:
		return color.RGBA{R: p[2], G: p[1], B: p[0], A: p[3]}
	}
}

// Set записывает цвет пикселя (x, y) в порядке каналов кадра.
func (f Frame) Set(x, y int, c color.RGBA) {
	ch := f.Order.Channels()
	i := (y*f.Width + x) * ch
	p := f.Pix[i : i+ch]
	switch f.Order {
	case OrderRGB, OrderRGBA:
		p[0], p[1], p[2] = c.R, c.G, c.B
	default:
		p[0], p[1], p[2] = c.B, c.G, c.R
	}
	if ch == 4 {
		p[3] = c.A
	}
}

// FillRect закрашивает прямоугольник r, обрезанный по границам кадра.
func (f Frame) FillRect(r image.Rectangle, c color.RGBA) {
	r = r.Intersect(image.Rect(0, 0, f.Width, f.Height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			f.Set(x, y, c)
		}
	}
}

// ToImage копирует кадр в *image.RGBA.
func (f Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, f.At(x, y))
		}
	}
	return img
}

// FrameFromImage копирует изображение в кадр с заданным порядком каналов.
func FrameFromImage(img image.Image, order ChannelOrder) Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy(), order)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := img.At(x+b.Min.X, y+b.Min.Y).RGBA()
			f.Set(x, y, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: uint8(a >> 8)})
		}
	}
	return f
}
