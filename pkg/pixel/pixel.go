// Package pixel holds the raster constants and the word codec used to
// move rows of 8 bit samples across a byte channel.
package pixel

import (
	"encoding/binary"

	"github.com/tauraamui/medianstream/internal/xerror"
)

const (
	Width  = 640
	Height = 480
	Planes = 3

	// WordSize is the number of bytes, and so samples, in one PackedWord.
	WordSize = 4

	RowBytes     = Width
	WordsPerRow  = Width / WordSize
	FrameSamples = Width * Height * Planes
)

// Row is one horizontal line of samples for a single color plane.
type Row []uint8

// PackedWord carries four consecutive samples, sample n in bits [8n, 8n+8).
type PackedWord uint32

func NewRow() Row { return make(Row, Width) }

// CheckDimensions reports a configuration error for a raster whose width
// cannot be split into whole words.
func CheckDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width%WordSize != 0 {
		return xerror.New(
			xerror.ConfigurationError, "row width must be a positive multiple of the word size",
		).WithParam("width", width).WithParam("height", height).WithParam("word_size", WordSize)
	}
	return nil
}

// Pack consumes row four samples at a time. len(row) must be a multiple of 4.
func Pack(row Row) []PackedWord {
	words := make([]PackedWord, len(row)/WordSize)
	for i := range words {
		p := row[i*WordSize : i*WordSize+WordSize]
		words[i] = PackedWord(p[0]) | PackedWord(p[1])<<8 | PackedWord(p[2])<<16 | PackedWord(p[3])<<24
	}
	return words
}

func Unpack(words []PackedWord) Row {
	row := make(Row, len(words)*WordSize)
	for i, w := range words {
		row[i*WordSize] = uint8(w)
		row[i*WordSize+1] = uint8(w >> 8)
		row[i*WordSize+2] = uint8(w >> 16)
		row[i*WordSize+3] = uint8(w >> 24)
	}
	return row
}

// EncodeRow packs row into dst as little endian words ready for the wire.
// dst must hold len(row) bytes.
func EncodeRow(dst []byte, row Row) {
	for i, w := range Pack(row) {
		binary.LittleEndian.PutUint32(dst[i*WordSize:], uint32(w))
	}
}

// DecodeRow reads little endian words from src and unpacks them into dst.
func DecodeRow(dst Row, src []byte) {
	words := make([]PackedWord, len(dst)/WordSize)
	for i := range words {
		words[i] = PackedWord(binary.LittleEndian.Uint32(src[i*WordSize:]))
	}
	copy(dst, Unpack(words))
}
