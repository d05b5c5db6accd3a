package videobackend

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"github.com/tauraamui/medianstream/pkg/pixel"
	"github.com/tauraamui/medianstream/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Mock returns a source rendering a synthetic test card with the title
// and a timestamp drawn on top.
func Mock(title string) Source {
	return &mockSource{title: title}
}

type mockSource struct {
	uuid       string
	title      string
	baseCanvas image.Image
	fontFace   *truetype.Font
}

var now = time.Now

func (m *mockSource) UUID() string {
	if len(m.uuid) == 0 {
		m.uuid = uuid.NewString()
	}
	return m.uuid
}

func (m *mockSource) NextFrame(ctx context.Context) (*videoframe.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.baseCanvas == nil {
		m.baseCanvas = renderBaseFrameCanvas()
	}
	if m.fontFace == nil {
		face, err := freetype.ParseFont(goregular.TTF)
		if err != nil {
			return nil, xerror.Errorf("unable to parse mock source font: %w", err)
		}
		m.fontFace = face
	}

	ts := now()
	canvas := cloneImage(m.baseCanvas)
	drawText(canvas, m.fontFace, 5, 50, "MEDIAN_STREAM_TEST_CARD")
	drawText(canvas, m.fontFace, 5, 180, m.title)
	drawText(canvas, m.fontFace, 5, 310, ts.Format("2006-01-02 15:04:05.999"))

	frame := videoframe.FromImage(canvas)
	frame.Timestamp = ts.UnixNano()
	return frame, nil
}

func (m *mockSource) Close() error {
	m.baseCanvas = nil
	return nil
}

// renderBaseFrameCanvas draws three overlapping primary circles at the
// frame's full size.
func renderBaseFrameCanvas() image.Image {
	var w, h int = 600, 400
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := 100.0
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), 150}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), 150}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), 150}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			})
		}
	}
	return scaleToFrame(img)
}

func scaleToFrame(src image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, pixel.Width, pixel.Height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func cloneImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

func drawText(canvas *image.RGBA, face *truetype.Font, x, y int, text string) {
	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(face, &truetype.Options{
			Size:    40,
			Hinting: font.HintingFull,
		}),
	}
	textBounds, _ := fontDrawer.BoundString(text)
	textHeight := textBounds.Max.Y - textBounds.Min.Y
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y-textHeight.Ceil())/2 + fixed.I(textHeight.Ceil()),
	}
	fontDrawer.DrawString(text)
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	if math.Sqrt(dx*dx+dy*dy)/c.R > 1 {
		return 0
	}
	return 255
}
