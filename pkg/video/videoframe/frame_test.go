package videoframe_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/medianstream/pkg/pixel"
	"github.com/tauraamui/medianstream/pkg/video/videoframe"
)

func TestRowIsViewIntoPlane(t *testing.T) {
	is := is.New(t)
	f := videoframe.New()

	f.Row(videoframe.Green, 10)[3] = 77
	is.Equal(f.At(videoframe.Green, 3, 10), uint8(77))
	is.Equal(f.At(videoframe.Red, 3, 10), uint8(0))
	is.Equal(len(f.Row(videoframe.Blue, pixel.Height-1)), pixel.Width)
}

func TestPlanesAreSequentialInBytes(t *testing.T) {
	is := is.New(t)
	f := videoframe.New()
	f.Set(videoframe.Blue, 0, 0, 9)

	is.Equal(f.Bytes()[2*pixel.Width*pixel.Height], uint8(9))
}

func TestImageRoundTrip(t *testing.T) {
	is := is.New(t)
	img := image.NewRGBA(image.Rect(0, 0, pixel.Width, pixel.Height))
	img.Set(5, 6, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	f := videoframe.FromImage(img)
	is.Equal(f.At(videoframe.Red, 5, 6), uint8(10))
	is.Equal(f.At(videoframe.Green, 5, 6), uint8(20))
	is.Equal(f.At(videoframe.Blue, 5, 6), uint8(30))

	is.True(videoframe.FromImage(f.ToRGBA()).Equal(f))
}

func TestInterleavedBGRRoundTrip(t *testing.T) {
	is := is.New(t)
	bgr := [pixel.Planes]int{videoframe.Blue, videoframe.Green, videoframe.Red}

	f := videoframe.New()
	f.Set(videoframe.Red, 1, 0, 200)
	f.Set(videoframe.Blue, 1, 0, 100)

	data := f.Interleaved(bgr)
	is.Equal(data[3], uint8(100))
	is.Equal(data[5], uint8(200))

	is.True(videoframe.FromInterleaved(data, bgr).Equal(f))
}
