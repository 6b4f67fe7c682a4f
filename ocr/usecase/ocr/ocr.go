package ocr

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/pkg/errors"
	"github.com/superj80820/pharmacy-ocr/domain"
	"github.com/superj80820/pharmacy-ocr/kit/code"
	loggerKit "github.com/superj80820/pharmacy-ocr/kit/logger"
	utilKit "github.com/superj80820/pharmacy-ocr/kit/util"
)

const (
	defaultCacheTTL      = time.Hour
	defaultMaxUploadSize = 10 << 20
	defaultMaxBatchSize  = 10
	defaultWorkerCount   = 4
	defaultRecordsLimit  = 100
	maxRecordsLimit      = 1000
)

type ocrUseCase struct {
	recognizerRepo  domain.RecognizerRepo
	cacheRepo       domain.OCRCacheRepo
	rateLimitRepo   domain.RateLimitRepo
	recordRepo      domain.ProcessedRecordRepo
	recordEventRepo domain.RecordEventRepo
	extractor       domain.ProductExtractorUseCase
	logger          *loggerKit.Logger

	cacheTTL       time.Duration
	cacheFailed    bool
	maxUploadSize  int
	maxBatchSize   int
	workerCount    int
	outcomeCounter metrics.Counter
	now            func() time.Time
}

var _ domain.OCRUseCase = (*ocrUseCase)(nil)

type Option func(*ocrUseCase)

func WithCacheTTL(ttl time.Duration) Option {
	return func(o *ocrUseCase) {
		o.cacheTTL = ttl
	}
}

// WithCacheFailedResults also caches failed recognitions.
func WithCacheFailedResults(cacheFailed bool) Option {
	return func(o *ocrUseCase) {
		o.cacheFailed = cacheFailed
	}
}

func WithMaxUploadSize(maxUploadSize int) Option {
	return func(o *ocrUseCase) {
		o.maxUploadSize = maxUploadSize
	}
}

func WithMaxBatchSize(maxBatchSize int) Option {
	return func(o *ocrUseCase) {
		o.maxBatchSize = maxBatchSize
	}
}

func WithWorkerCount(workerCount int) Option {
	return func(o *ocrUseCase) {
		o.workerCount = workerCount
	}
}

func WithProductExtractor(extractor domain.ProductExtractorUseCase) Option {
	return func(o *ocrUseCase) {
		o.extractor = extractor
	}
}

func WithRecordEventRepo(recordEventRepo domain.RecordEventRepo) Option {
	return func(o *ocrUseCase) {
		o.recordEventRepo = recordEventRepo
	}
}

// WithOutcomeCounter expects a counter labeled by "status" and "cache".
func WithOutcomeCounter(counter metrics.Counter) Option {
	return func(o *ocrUseCase) {
		o.outcomeCounter = counter
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *ocrUseCase) {
		o.now = now
	}
}

func CreateOCRUseCase(
	recognizerRepo domain.RecognizerRepo,
	cacheRepo domain.OCRCacheRepo,
	rateLimitRepo domain.RateLimitRepo,
	recordRepo domain.ProcessedRecordRepo,
	logger *loggerKit.Logger,
	options ...Option,
) (domain.OCRUseCase, error) {
	if recognizerRepo == nil || cacheRepo == nil || rateLimitRepo == nil || recordRepo == nil || logger == nil {
		return nil, errors.New("create ocr use case failed, missing dependency")
	}
	o := &ocrUseCase{
		recognizerRepo: recognizerRepo,
		cacheRepo:      cacheRepo,
		rateLimitRepo:  rateLimitRepo,
		recordRepo:     recordRepo,
		logger:         logger,
		cacheTTL:       defaultCacheTTL,
		maxUploadSize:  defaultMaxUploadSize,
		maxBatchSize:   defaultMaxBatchSize,
		workerCount:    defaultWorkerCount,
		outcomeCounter: discard.NewCounter(),
		now:            time.Now,
	}
	for _, option := range options {
		option(o)
	}
	if o.workerCount <= 0 {
		return nil, errors.Errorf("worker count must be positive, got: %d", o.workerCount)
	}
	if o.maxBatchSize <= 0 {
		return nil, errors.Errorf("max batch size must be positive, got: %d", o.maxBatchSize)
	}
	return o, nil
}

// Process returns an error only when ctx is done, every other failure is reported by the outcome status.
func (o *ocrUseCase) Process(ctx context.Context, request *domain.ImageRequest) (*domain.ImageOutcome, error) {
	outcome, err := o.process(ctx, request)
	o.outcomeCounter.With("status", string(outcome.Status), "cache", strconv.FormatBool(outcome.CacheHit)).Add(1)
	return outcome, err
}

func (o *ocrUseCase) process(ctx context.Context, request *domain.ImageRequest) (*domain.ImageOutcome, error) {
	outcome := &domain.ImageOutcome{
		Position: request.Position,
		FileName: request.FileName,
	}

	if err := ctx.Err(); err != nil {
		return canceledOutcome(outcome, err), err
	}

	if len(request.Data) == 0 {
		outcome.Status = domain.OutcomeStatusInvalid
		outcome.Message = "image is empty"
		outcome.Err = errors.Wrap(domain.ErrInvalidData, "image is empty")
		return outcome, nil
	}
	if o.maxUploadSize > 0 && len(request.Data) > o.maxUploadSize {
		outcome.Status = domain.OutcomeStatusInvalid
		outcome.Message = "image too large. max bytes: " + strconv.Itoa(o.maxUploadSize)
		outcome.Err = errors.Wrapf(domain.ErrInvalidData, "image size %d over max %d", len(request.Data), o.maxUploadSize)
		return outcome, nil
	}

	digest := utilKit.GetSHA256Bytes(request.Data)
	cacheKey := domain.CreateCacheKey(digest)

	decision := o.rateLimitRepo.Allow(ctx, request.UserID)
	if !decision.Allowed {
		outcome.Status = domain.OutcomeStatusRateLimited
		outcome.Message = "rate limit exceeded"
		outcome.RetryAfterSeconds = int(math.Ceil(decision.RetryAfter.Seconds()))
		outcome.Err = domain.ErrRateLimited
		o.logger.Info("rate limit denied",
			loggerKit.String("user_id", request.UserID),
			loggerKit.String("image_digest", digest),
			loggerKit.Int("retry_after_seconds", outcome.RetryAfterSeconds),
		)
		return outcome, nil
	}

	result, cacheHit := o.cacheRepo.Get(ctx, cacheKey)
	if !cacheHit {
		result = o.recognize(ctx, request.Data)
		if err := ctx.Err(); err != nil {
			return canceledOutcome(outcome, err), err
		}
		if result.IsSuccess() || o.cacheFailed {
			o.cacheRepo.Put(ctx, cacheKey, result, o.cacheTTL)
		}
	}
	if !result.IsSuccess() {
		o.logger.Warn("recognition failed",
			loggerKit.String("user_id", request.UserID),
			loggerKit.String("image_digest", digest),
			loggerKit.String("reason", result.Error),
			loggerKit.Bool("cache_hit", cacheHit),
		)
	}

	if err := ctx.Err(); err != nil {
		return canceledOutcome(outcome, err), err
	}

	record := &domain.ProcessedRecord{
		UserID:      request.UserID,
		ImageDigest: digest,
		FileName:    request.FileName,
		Result:      result,
		CacheHit:    cacheHit,
		CreatedAt:   o.now(),
	}
	recordID, err := o.recordRepo.Save(ctx, record)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return canceledOutcome(outcome, ctxErr), ctxErr
		}
		o.logger.Error("persist record failed",
			loggerKit.String("user_id", request.UserID),
			loggerKit.String("image_digest", digest),
			loggerKit.Error(err),
		)
		outcome.Status = domain.OutcomeStatusPersistFailed
		outcome.Message = "persist record failed"
		outcome.CacheHit = cacheHit
		outcome.Err = errors.Wrapf(domain.ErrPersist, "save record failed: %v", err)
		return outcome, nil
	}
	record.ID = recordID

	if o.recordEventRepo != nil {
		if err := o.recordEventRepo.Publish(ctx, record); err != nil {
			o.logger.Warn("publish record event failed", loggerKit.Int64("record_id", recordID), loggerKit.Error(err))
		}
	}

	outcome.Result = result
	outcome.CacheHit = cacheHit
	outcome.RecordID = recordID
	if result.IsSuccess() {
		outcome.Status = domain.OutcomeStatusSuccess
	} else {
		outcome.Status = domain.OutcomeStatusFailed
		outcome.Message = result.Error
	}
	return outcome, nil
}

func (o *ocrUseCase) recognize(ctx context.Context, data []byte) *domain.RecognitionResult {
	result := o.recognizerRepo.Recognize(ctx, data)
	if result == nil {
		return &domain.RecognitionResult{
			Status: domain.RecognitionStatusFailed,
			Error:  "recognizer returned no result",
		}
	}
	if result.IsSuccess() && o.extractor != nil {
		if product := o.extractor.Extract(result.Text); !product.IsEmpty() {
			result.Product = product
		}
	}
	return result
}

func (o *ocrUseCase) GetRecords(ctx context.Context, userID string, from, to time.Time, limit int) ([]*domain.ProcessedRecord, error) {
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddErrorMetaData(errors.New("from must be before to"))
	}
	if limit <= 0 {
		limit = defaultRecordsLimit
	} else if limit > maxRecordsLimit {
		limit = maxRecordsLimit
	}
	records, err := o.recordRepo.ListByUser(ctx, userID, from, to, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list records failed")
	}
	return records, nil
}

func canceledOutcome(outcome *domain.ImageOutcome, err error) *domain.ImageOutcome {
	outcome.Status = domain.OutcomeStatusCanceled
	outcome.Message = err.Error()
	outcome.Err = err
	outcome.Result = nil
	return outcome
}
