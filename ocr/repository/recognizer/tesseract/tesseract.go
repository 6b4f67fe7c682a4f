package tesseract

import (
	"context"

	"github.com/otiai10/gosseract/v2"
	"github.com/pkg/errors"
	"github.com/superj80820/pharmacy-ocr/ocr/repository/recognizer"
)

type tesseractEngine struct {
	languages []string
	pageMode  gosseract.PageSegMode
}

var _ recognizer.Engine = (*tesseractEngine)(nil)

type Option func(*tesseractEngine)

func WithLanguages(languages ...string) Option {
	return func(t *tesseractEngine) {
		t.languages = languages
	}
}

// CreateTesseractEngine reads sparse text, labels on packages are rarely laid out in paragraphs.
func CreateTesseractEngine(options ...Option) recognizer.Engine {
	t := &tesseractEngine{
		languages: []string{"eng"},
		pageMode:  gosseract.PSM_SPARSE_TEXT,
	}
	for _, option := range options {
		option(t)
	}
	return t
}

// Recognize opens one client per call, a gosseract client must not be shared between goroutines.
func (t *tesseractEngine) Recognize(ctx context.Context, image []byte) ([]recognizer.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "context done before recognize")
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return nil, errors.Wrap(err, "set languages failed")
	}
	if err := client.SetPageSegMode(t.pageMode); err != nil {
		return nil, errors.Wrap(err, "set page seg mode failed")
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return nil, errors.Wrap(err, "set image failed")
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, errors.Wrap(err, "get bounding boxes failed")
	}
	words := make([]recognizer.Word, 0, len(boxes))
	for _, box := range boxes {
		words = append(words, recognizer.Word{
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
		})
	}
	return words, nil
}
