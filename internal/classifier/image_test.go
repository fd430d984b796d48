package classifier

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepareImage_SmallImageUnchanged(t *testing.T) {
	data := encodePNG(t, 40, 20)

	out, mediaType, err := prepareImage(data, 100)

	require.NoError(t, err)
	assert.Equal(t, data, out)
	assert.Equal(t, "image/png", mediaType)
}

func TestPrepareImage_Downscale(t *testing.T) {
	data := encodePNG(t, 400, 200)

	out, mediaType, err := prepareImage(data, 100)

	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mediaType)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

// withPNGDimensions переписывает ширину и высоту в заголовке IHDR, не трогая данные пикселей
func withPNGDimensions(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	out := append([]byte{}, data...)
	require.Equal(t, "IHDR", string(out[12:16]))
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestPrepareImage_RejectsHugeDimensionsBeforeDecoding(t *testing.T) {
	data := withPNGDimensions(t, encodePNG(t, 4, 4), 12000, 12000)

	out, _, err := prepareImage(data, 1024)

	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.Nil(t, out)
}

func TestPrepareImage_NotAnImage(t *testing.T) {
	_, _, err := prepareImage([]byte("plain text"), 100)

	assert.Error(t, err)
}

func TestApplyOrientation_Rotate90(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})

	out := applyOrientation(src, 6)

	assert.Equal(t, image.Rect(0, 0, 2, 3), out.Bounds())
	r, _, _, _ := out.At(1, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestDetectMediaType(t *testing.T) {
	assert.Equal(t, "image/png", detectMediaType(encodePNG(t, 2, 2)))
	assert.Equal(t, "image/jpeg", detectMediaType([]byte("unknown bytes")))
}
