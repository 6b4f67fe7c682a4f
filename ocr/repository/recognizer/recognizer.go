package recognizer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/superj80820/pharmacy-ocr/domain"
	loggerKit "github.com/superj80820/pharmacy-ocr/kit/logger"
)

const (
	defaultMaxImageSize  = 4096
	defaultMinConfidence = 0.5

	// decoded images above this pixel count are refused before allocation
	maxDecodePixels = 80 * 1000 * 1000
)

// Word is one recognized token, Confidence is in [0,1].
type Word struct {
	Text       string
	Confidence float64
}

// Engine turns a preprocessed png image into words. Implementations may block and must respect ctx.
type Engine interface {
	Recognize(ctx context.Context, image []byte) ([]Word, error)
}

type recognizerRepo struct {
	engine        Engine
	logger        *loggerKit.Logger
	maxImageSize  int
	minConfidence float64
}

var _ domain.RecognizerRepo = (*recognizerRepo)(nil)

type Option func(*recognizerRepo)

func WithMaxImageSize(maxImageSize int) Option {
	return func(r *recognizerRepo) {
		r.maxImageSize = maxImageSize
	}
}

func WithMinConfidence(minConfidence float64) Option {
	return func(r *recognizerRepo) {
		r.minConfidence = minConfidence
	}
}

func CreateRecognizerRepo(engine Engine, logger *loggerKit.Logger, options ...Option) domain.RecognizerRepo {
	r := &recognizerRepo{
		engine:        engine,
		logger:        logger,
		maxImageSize:  defaultMaxImageSize,
		minConfidence: defaultMinConfidence,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Recognize never returns nil and never panics, every problem becomes a failed result.
func (r *recognizerRepo) Recognize(ctx context.Context, data []byte) (result *domain.RecognitionResult) {
	startTime := time.Now()
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("recognizer panic", loggerKit.String("panic", fmt.Sprint(p)))
			result = failedResult(fmt.Sprintf("recognizer panic: %v", p))
		}
		result.ProcessingTime = time.Since(startTime)
	}()

	img, err := decodeImage(data)
	if err != nil {
		return failedResult(err.Error())
	}

	preprocessed, err := preprocess(img, r.maxImageSize)
	if err != nil {
		return failedResult(err.Error())
	}

	words, err := r.engine.Recognize(ctx, preprocessed)
	if err != nil {
		r.logger.Warn("engine recognize failed", loggerKit.Error(err))
		return failedResult(errors.Wrap(err, "engine recognize failed").Error())
	}

	text, confidence := joinWords(words, r.minConfidence)
	return &domain.RecognitionResult{
		Text:       text,
		Confidence: confidence,
		Status:     domain.RecognitionStatusSuccess,
	}
}

func failedResult(message string) *domain.RecognitionResult {
	return &domain.RecognitionResult{
		Status: domain.RecognitionStatusFailed,
		Error:  message,
	}
}

func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image")
	}
	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode image config failed")
	}
	if domain.ParseImageType(format) == domain.ImageTypeUnknown {
		return nil, errors.New(fmt.Sprintf("unsupported image format: %s", format))
	}
	if config.Width <= 0 || config.Height <= 0 || config.Width*config.Height > maxDecodePixels {
		return nil, errors.New(fmt.Sprintf("unsupported image dimension: %dx%d", config.Width, config.Height))
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "decode image failed")
	}
	return img, nil
}

func joinWords(words []Word, minConfidence float64) (string, float64) {
	var (
		kept []string
		sum  float64
	)
	for _, word := range words {
		text := strings.TrimSpace(word.Text)
		if text == "" || word.Confidence < minConfidence {
			continue
		}
		kept = append(kept, text)
		sum += word.Confidence
	}
	if len(kept) == 0 {
		return "", 0
	}
	return strings.Join(kept, " "), sum / float64(len(kept))
}
