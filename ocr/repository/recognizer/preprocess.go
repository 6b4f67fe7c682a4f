package recognizer

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// preprocess scales the longest side down to maxImageSize, drops color and lifts contrast.
func preprocess(img image.Image, maxImageSize int) ([]byte, error) {
	bounds := img.Bounds()
	if maxImageSize > 0 && (bounds.Dx() > maxImageSize || bounds.Dy() > maxImageSize) {
		img = imaging.Fit(img, maxImageSize, maxImageSize, imaging.Lanczos)
	}
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 30)
	gray = imaging.Sharpen(gray, 0.5)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, imaging.PNG); err != nil {
		return nil, errors.Wrap(err, "encode preprocessed image failed")
	}
	return buf.Bytes(), nil
}
