package pixel_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/tauraamui/medianstream/internal/xerror"
	"github.com/tauraamui/medianstream/pkg/pixel"
)

func TestPackPlacesFirstSampleInLowestByte(t *testing.T) {
	is := is.New(t)

	words := pixel.Pack(pixel.Row{0x01, 0x02, 0x03, 0x04, 0xAA, 0xBB, 0xCC, 0xDD})
	is.Equal(words, []pixel.PackedWord{0x04030201, 0xDDCCBBAA})
}

func TestUnpackExtractsBytesInOrder(t *testing.T) {
	is := is.New(t)

	row := pixel.Unpack([]pixel.PackedWord{0xFF00FF01})
	is.Equal(row, pixel.Row{0x01, 0xFF, 0x00, 0xFF})
}

func TestPackUnpackRoundTripsFullWidthRow(t *testing.T) {
	row := pixel.NewRow()
	for i := range row {
		row[i] = uint8(i * 7)
	}

	assert.Equal(t, row, pixel.Unpack(pixel.Pack(row)))
}

func TestEncodeDecodeRowMatchesRawByteOrder(t *testing.T) {
	is := is.New(t)

	row := pixel.NewRow()
	for i := range row {
		row[i] = uint8(255 - i%256)
	}

	wire := make([]byte, pixel.RowBytes)
	pixel.EncodeRow(wire, row)
	// little endian packing leaves the samples in their original order
	is.Equal([]byte(row), wire)

	decoded := pixel.NewRow()
	pixel.DecodeRow(decoded, wire)
	is.Equal(decoded, row)
}

func TestCheckDimensions(t *testing.T) {
	is := is.New(t)

	is.NoErr(pixel.CheckDimensions(pixel.Width, pixel.Height))

	err := pixel.CheckDimensions(642, 480)
	is.True(err != nil)
	is.True(errors.Is(err, xerror.ConfigurationError))

	is.True(pixel.CheckDimensions(0, 480) != nil)
	is.True(pixel.CheckDimensions(640, 0) != nil)
}
