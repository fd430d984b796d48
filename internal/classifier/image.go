package classifier

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 85

// maxDecodePixels - предел площади изображения, которое разрешено декодировать в память
const maxDecodePixels = 40_000_000

// ErrImageTooLarge - заявленные размеры изображения превышают maxDecodePixels
var ErrImageTooLarge = errors.New("image dimensions exceed decode limit")

// prepareImage поворачивает изображение по EXIF и уменьшает до maxDim по большей стороне.
// Если изменений не требуется, возвращаются исходные байты.
func prepareImage(data []byte, maxDim int) ([]byte, string, error) {
	orientation := exifOrientation(data)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxDecodePixels {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	fits := maxDim <= 0 || (cfg.Width <= maxDim && cfg.Height <= maxDim)
	if fits && orientation == 1 {
		return data, detectMediaType(data), nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	img = applyOrientation(img, orientation)

	if !fits {
		img = downscale(img, maxDim)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// exifOrientation возвращает значение тега Orientation или 1, если его нет
func exifOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

func applyOrientation(img image.Image, orientation int) image.Image {
	if orientation < 2 || orientation > 8 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dw, dh := w, h
	if orientation >= 5 {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := orientedPoint(orientation, x, y, w, h)
			dst.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func orientedPoint(orientation, x, y, w, h int) (int, int) {
	switch orientation {
	case 2: // зеркально по горизонтали
		return w - 1 - x, y
	case 3: // 180
		return w - 1 - x, h - 1 - y
	case 4: // зеркально по вертикали
		return x, h - 1 - y
	case 5: // транспонирование
		return y, x
	case 6: // 90 по часовой
		return h - 1 - y, x
	case 7: // транспонирование по побочной диагонали
		return h - 1 - y, w - 1 - x
	case 8: // 90 против часовой
		return y, w - 1 - x
	}
	return x, y
}

func downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	scale := float64(maxDim) / float64(w)
	if s := float64(maxDim) / float64(h); s < scale {
		scale = s
	}
	nw, nh := max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
	dst := image.NewRGBA(image.Rect(0, 0, min(nw, maxDim), min(nh, maxDim)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// detectMediaType определяет тип изображения; неизвестные форматы считаются JPEG
func detectMediaType(data []byte) string {
	switch ct := http.DetectContentType(data); ct {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return ct
	default:
		return "image/jpeg"
	}
}
