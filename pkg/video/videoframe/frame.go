package videoframe

import (
	"image"
	"image/color"

	"github.com/tauraamui/medianstream/pkg/pixel"
)

type Dimensions struct {
	W, H int
}

// Plane indexes, in transmission order.
const (
	Red = iota
	Green
	Blue
)

// Frame is a fixed size image held as three consecutive planes of rows.
type Frame struct {
	Seq       uint64
	Timestamp int64
	data      []uint8
}

func New() *Frame {
	return &Frame{data: make([]uint8, pixel.FrameSamples)}
}

func (f *Frame) Dimensions() Dimensions {
	return Dimensions{W: pixel.Width, H: pixel.Height}
}

// Row returns the stored row y of plane p, not a copy.
func (f *Frame) Row(p, y int) pixel.Row {
	start := (p*pixel.Height + y) * pixel.Width
	return pixel.Row(f.data[start : start+pixel.Width])
}

func (f *Frame) At(p, x, y int) uint8 {
	return f.data[(p*pixel.Height+y)*pixel.Width+x]
}

func (f *Frame) Set(p, x, y int, v uint8) {
	f.data[(p*pixel.Height+y)*pixel.Width+x] = v
}

// Bytes exposes the raw planar samples.
func (f *Frame) Bytes() []uint8 { return f.data }

func (f *Frame) Equal(o *Frame) bool {
	if len(f.data) != len(o.data) {
		return false
	}
	for i := range f.data {
		if f.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// FromImage copies img into a new frame. img must have the frame's
// dimensions, anything outside of them is ignored and missing parts stay 0.
func FromImage(img image.Image) *Frame {
	f := New()
	b := img.Bounds()
	for y := 0; y < pixel.Height && y < b.Dy(); y++ {
		for x := 0; x < pixel.Width && x < b.Dx(); x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			f.Set(Red, x, y, c.R)
			f.Set(Green, x, y, c.G)
			f.Set(Blue, x, y, c.B)
		}
	}
	return f
}

func (f *Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, pixel.Width, pixel.Height))
	for y := 0; y < pixel.Height; y++ {
		for x := 0; x < pixel.Width; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = f.At(Red, x, y)
			img.Pix[i+1] = f.At(Green, x, y)
			img.Pix[i+2] = f.At(Blue, x, y)
			img.Pix[i+3] = 0xFF
		}
	}
	return img
}

// FromInterleaved loads pixel interleaved samples, such as an OpenCV BGR
// matrix, where order[c] names the plane of channel c.
func FromInterleaved(data []byte, order [pixel.Planes]int) *Frame {
	f := New()
	for y := 0; y < pixel.Height; y++ {
		for x := 0; x < pixel.Width; x++ {
			i := (y*pixel.Width + x) * pixel.Planes
			if i+pixel.Planes > len(data) {
				return f
			}
			for c, p := range order {
				f.Set(p, x, y, data[i+c])
			}
		}
	}
	return f
}

func (f *Frame) Interleaved(order [pixel.Planes]int) []byte {
	out := make([]byte, pixel.FrameSamples)
	for y := 0; y < pixel.Height; y++ {
		for x := 0; x < pixel.Width; x++ {
			i := (y*pixel.Width + x) * pixel.Planes
			for c, p := range order {
				out[i+c] = f.At(p, x, y)
			}
		}
	}
	return out
}
