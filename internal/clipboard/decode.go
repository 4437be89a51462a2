package clipboard

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

const (
	bmpFileHeaderSize = 14
	biBitFields       = 3
)

// DecodeImage decodes PNG, BMP or a headerless device independent bitmap
// as found in the CF_DIB clipboard format
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty clipboard image")
	}
	if isDIB(data) {
		data = dibToBMP(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode clipboard image: %w", err)
	}
	return img, nil
}

func isDIB(data []byte) bool {
	if len(data) < 40 {
		return false
	}
	switch binary.LittleEndian.Uint32(data[0:4]) {
	case 40, 52, 56, 108, 124:
		return true
	}
	return false
}

// dibToBMP prepends the BITMAPFILEHEADER so the bmp decoder accepts it
func dibToBMP(dib []byte) []byte {
	headerSize := binary.LittleEndian.Uint32(dib[0:4])
	bitCount := binary.LittleEndian.Uint16(dib[14:16])
	compression := binary.LittleEndian.Uint32(dib[16:20])
	colorsUsed := binary.LittleEndian.Uint32(dib[32:36])

	offset := bmpFileHeaderSize + headerSize
	if headerSize == 40 && compression == biBitFields {
		offset += 12
	}
	if bitCount <= 8 {
		if colorsUsed == 0 {
			colorsUsed = 1 << bitCount
		}
		offset += colorsUsed * 4
	}

	out := make([]byte, bmpFileHeaderSize, bmpFileHeaderSize+len(dib))
	out[0], out[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(out[2:6], uint32(bmpFileHeaderSize+len(dib)))
	binary.LittleEndian.PutUint32(out[10:14], offset)
	return append(out, dib...)
}
