package ocr

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/superj80820/pharmacy-ocr/domain"
	"github.com/superj80820/pharmacy-ocr/kit/code"
	loggerKit "github.com/superj80820/pharmacy-ocr/kit/logger"
	mqMemory "github.com/superj80820/pharmacy-ocr/kit/mq/memory"
	rateLimitMemory "github.com/superj80820/pharmacy-ocr/kit/ratelimit/memory"
	utilKit "github.com/superj80820/pharmacy-ocr/kit/util"
	cacheMemory "github.com/superj80820/pharmacy-ocr/ocr/repository/cache/memory"
	cacheNoop "github.com/superj80820/pharmacy-ocr/ocr/repository/cache/noop"
	eventMQ "github.com/superj80820/pharmacy-ocr/ocr/repository/event/mq"
	rateLimitRepo "github.com/superj80820/pharmacy-ocr/ocr/repository/ratelimit"
	"github.com/superj80820/pharmacy-ocr/ocr/usecase/extractor"
)

var corruptImage = []byte("corrupt")

type fakeRecognizer struct {
	calls int64
	delay time.Duration
}

func (f *fakeRecognizer) Recognize(ctx context.Context, data []byte) *domain.RecognitionResult {
	atomic.AddInt64(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return &domain.RecognitionResult{Status: domain.RecognitionStatusFailed, Error: ctx.Err().Error()}
		}
	}
	if bytes.Equal(data, corruptImage) {
		return &domain.RecognitionResult{Status: domain.RecognitionStatusFailed, Error: "unsupported image format"}
	}
	return &domain.RecognitionResult{
		Text:           "text of " + string(data),
		Confidence:     0.9,
		ProcessingTime: time.Millisecond,
		Status:         domain.RecognitionStatusSuccess,
	}
}

func (f *fakeRecognizer) Calls() int {
	return int(atomic.LoadInt64(&f.calls))
}

type fakeRecordRepo struct {
	lock     sync.Mutex
	records  []*domain.ProcessedRecord
	failOn   map[string]bool
	sequence int64
}

func (f *fakeRecordRepo) Save(ctx context.Context, record *domain.ProcessedRecord) (int64, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.failOn[record.FileName] {
		return 0, errors.New("disk full")
	}
	f.sequence++
	saved := *record
	saved.ID = f.sequence
	f.records = append(f.records, &saved)
	return f.sequence, nil
}

func (f *fakeRecordRepo) ListByUser(ctx context.Context, userID string, from, to time.Time, limit int) ([]*domain.ProcessedRecord, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	var records []*domain.ProcessedRecord
	for i := len(f.records) - 1; i >= 0 && len(records) < limit; i-- {
		if f.records[i].UserID == userID {
			records = append(records, f.records[i])
		}
	}
	return records, nil
}

func (f *fakeRecordRepo) Count() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.records)
}

type testClock struct {
	lock sync.Mutex
	now  time.Time
}

func (c *testClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *testClock) Add(d time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = c.now.Add(d)
}

type testSuite struct {
	useCase    domain.OCRUseCase
	recognizer *fakeRecognizer
	recordRepo *fakeRecordRepo
	clock      *testClock
}

type suiteConfig struct {
	cacheRepo     domain.OCRCacheRepo
	rateLimitRepo domain.RateLimitRepo
	failOn        map[string]bool
	delay         time.Duration
	options       []Option
}

func createTestSuite(t *testing.T, config suiteConfig) *testSuite {
	clock := &testClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	if config.cacheRepo == nil {
		config.cacheRepo = cacheMemory.CreateOCRCacheRepo(cacheMemory.WithClock(clock.Now))
	}
	if config.rateLimitRepo == nil {
		config.rateLimitRepo = rateLimitRepo.CreateNoOpRateLimitRepo()
	}
	recognizer := &fakeRecognizer{delay: config.delay}
	recordRepo := &fakeRecordRepo{failOn: config.failOn}

	options := append([]Option{WithClock(clock.Now)}, config.options...)
	useCase, err := CreateOCRUseCase(recognizer, config.cacheRepo, config.rateLimitRepo, recordRepo, loggerKit.NewNopLogger(), options...)
	assert.Nil(t, err)

	return &testSuite{
		useCase:    useCase,
		recognizer: recognizer,
		recordRepo: recordRepo,
		clock:      clock,
	}
}

func createBatch(size int) []*domain.ImageRequest {
	requests := make([]*domain.ImageRequest, size)
	for i := range requests {
		requests[i] = &domain.ImageRequest{
			FileName: fmt.Sprintf("image-%d.png", i),
			Data:     []byte(fmt.Sprintf("image-%d", i)),
		}
	}
	return requests
}

func TestCacheKeyDeterminism(t *testing.T) {
	image := []byte("same bytes")
	copied := append([]byte(nil), image...)

	assert.Equal(t,
		domain.CreateCacheKey(utilKit.GetSHA256Bytes(image)),
		domain.CreateCacheKey(utilKit.GetSHA256Bytes(copied)),
	)
	assert.NotEqual(t,
		domain.CreateCacheKey(utilKit.GetSHA256Bytes(image)),
		domain.CreateCacheKey(utilKit.GetSHA256Bytes([]byte("other bytes"))),
	)
}

func TestCreateOCRUseCase(t *testing.T) {
	_, err := CreateOCRUseCase(nil, cacheNoop.CreateOCRCacheRepo(), rateLimitRepo.CreateNoOpRateLimitRepo(), &fakeRecordRepo{}, loggerKit.NewNopLogger())
	assert.NotNil(t, err)

	_, err = CreateOCRUseCase(&fakeRecognizer{}, cacheNoop.CreateOCRCacheRepo(), rateLimitRepo.CreateNoOpRateLimitRepo(), &fakeRecordRepo{}, loggerKit.NewNopLogger(), WithWorkerCount(0))
	assert.NotNil(t, err)
}

func TestProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("success is persisted", func(t *testing.T) {
		suite := createTestSuite(t, suiteConfig{})

		outcome, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", FileName: "a.png", Data: []byte("a")})
		assert.Nil(t, err)
		assert.Equal(t, domain.OutcomeStatusSuccess, outcome.Status)
		assert.Equal(t, "text of a", outcome.Result.Text)
		assert.False(t, outcome.CacheHit)
		assert.Equal(t, int64(1), outcome.RecordID)
		assert.Equal(t, 1, suite.recordRepo.Count())
		assert.Equal(t, utilKit.GetSHA256Bytes([]byte("a")), suite.recordRepo.records[0].ImageDigest)
		assert.Equal(t, "user-1", suite.recordRepo.records[0].UserID)
	})

	t.Run("second identical call is a cache hit", func(t *testing.T) {
		suite := createTestSuite(t, suiteConfig{})

		first, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte("a")})
		assert.Nil(t, err)
		second, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte("a")})
		assert.Nil(t, err)

		assert.False(t, first.CacheHit)
		assert.True(t, second.CacheHit)
		assert.Equal(t, first.Result, second.Result)
		assert.Equal(t, 1, suite.recognizer.Calls())
		assert.Equal(t, 2, suite.recordRepo.Count())
		assert.True(t, suite.recordRepo.records[1].CacheHit)
	})

	t.Run("cache expires after ttl", func(t *testing.T) {
		suite := createTestSuite(t, suiteConfig{options: []Option{WithCacheTTL(time.Minute)}})

		_, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte("a")})
		assert.Nil(t, err)
		suite.clock.Add(2 * time.Minute)
		outcome, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte("a")})
		assert.Nil(t, err)
		assert.False(t, outcome.CacheHit)
		assert.Equal(t, 2, suite.recognizer.Calls())
	})

	t.Run("absent cache recognizes every time", func(t *testing.T) {
		suite := createTestSuite(t, suiteConfig{cacheRepo: cacheNoop.CreateOCRCacheRepo()})

		for i := 0; i < 3; i++ {
			outcome, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte("a")})
			assert.Nil(t, err)
			assert.Equal(t, domain.OutcomeStatusSuccess, outcome.Status)
			assert.False(t, outcome.CacheHit)
		}
		assert.Equal(t, 3, suite.recognizer.Calls())
		assert.Equal(t, 3, suite.recordRepo.Count())
	})

	t.Run("failed recognition is persisted but not cached", func(t *testing.T) {
		suite := createTestSuite(t, suiteConfig{})

		for i := 0; i < 2; i++ {
			outcome, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: corruptImage})
			assert.Nil(t, err)
			assert.Equal(t, domain.OutcomeStatusFailed, outcome.Status)
			assert.Equal(t, "unsupported image format", outcome.Message)
			assert.Empty(t, outcome.Result.Text)
			assert.False(t, outcome.CacheHit)
		}
		assert.Equal(t, 2, suite.recognizer.Calls())
		assert.Equal(t, 2, suite.recordRepo.Count())
	})

	t.Run("failed recognition is cached when enabled", func(t *testing.T) {
		suite := createTestSuite(t, suiteConfig{options: []Option{WithCacheFailedResults(true)}})

		_, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: corruptImage})
		assert.Nil(t, err)
		outcome, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: corruptImage})
		assert.Nil(t, err)
		assert.Equal(t, domain.OutcomeStatusFailed, outcome.Status)
		assert.True(t, outcome.CacheHit)
		assert.Equal(t, 1, suite.recognizer.Calls())
	})

	t.Run("invalid image uses no slot and leaves no record", func(t *testing.T) {
		clock := &testClock{now: time.Unix(0, 0)}
		limiter := rateLimitRepo.CreateRateLimitRepo(rateLimitMemory.CreateMemoryRateLimit(1, time.Minute, rateLimitMemory.WithClock(clock.Now)), loggerKit.NewNopLogger())
		suite := createTestSuite(t, suiteConfig{rateLimitRepo: limiter, options: []Option{WithMaxUploadSize(4)}})

		outcome, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1"})
		assert.Nil(t, err)
		assert.Equal(t, domain.OutcomeStatusInvalid, outcome.Status)
		assert.ErrorIs(t, outcome.Err, domain.ErrInvalidData)

		outcome, err = suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte("too large")})
		assert.Nil(t, err)
		assert.Equal(t, domain.OutcomeStatusInvalid, outcome.Status)

		outcome, err = suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte("ok")})
		assert.Nil(t, err)
		assert.Equal(t, domain.OutcomeStatusSuccess, outcome.Status)
		assert.Equal(t, 1, suite.recordRepo.Count())
		assert.Equal(t, 1, suite.recognizer.Calls())
	})

	t.Run("persist failure is reported", func(t *testing.T) {
		suite := createTestSuite(t, suiteConfig{failOn: map[string]bool{"a.png": true}})

		outcome, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", FileName: "a.png", Data: []byte("a")})
		assert.Nil(t, err)
		assert.Equal(t, domain.OutcomeStatusPersistFailed, outcome.Status)
		assert.ErrorIs(t, outcome.Err, domain.ErrPersist)
		assert.Nil(t, outcome.Result)
		assert.Equal(t, 0, suite.recordRepo.Count())
	})

	t.Run("canceled context leaves no record", func(t *testing.T) {
		suite := createTestSuite(t, suiteConfig{delay: time.Second})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		outcome, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte("a")})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, domain.OutcomeStatusCanceled, outcome.Status)
		assert.Equal(t, 0, suite.recordRepo.Count())
	})

	t.Run("product is extracted from successful text", func(t *testing.T) {
		recognizer := &productRecognizer{text: "Panadol\nParacetamol 500mg Tablets\nBatch No: B12-345"}
		useCase, err := CreateOCRUseCase(recognizer, cacheNoop.CreateOCRCacheRepo(), rateLimitRepo.CreateNoOpRateLimitRepo(), &fakeRecordRepo{}, loggerKit.NewNopLogger(),
			WithProductExtractor(extractor.CreateExtractorUseCase(extractor.DefaultDictionary())),
		)
		assert.Nil(t, err)

		outcome, err := useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte("a")})
		assert.Nil(t, err)
		assert.NotNil(t, outcome.Result.Product)
		assert.Equal(t, "B12-345", outcome.Result.Product.BatchNumber)
		assert.Equal(t, "500mg", outcome.Result.Product.Strength)
	})

	t.Run("record event is published after save", func(t *testing.T) {
		producer := mqMemory.CreateProducer()
		suite := createTestSuite(t, suiteConfig{options: []Option{WithRecordEventRepo(eventMQ.CreateRecordEventRepo(producer))}})

		_, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte("a")})
		assert.Nil(t, err)
		assert.Len(t, producer.Messages(), 1)
		assert.Contains(t, string(producer.Messages()[0]), `"user_id":"user-1"`)
	})

	t.Run("publish failure does not fail the item", func(t *testing.T) {
		producer := mqMemory.CreateProducer()
		assert.Nil(t, producer.Close())
		suite := createTestSuite(t, suiteConfig{options: []Option{WithRecordEventRepo(eventMQ.CreateRecordEventRepo(producer))}})

		outcome, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte("a")})
		assert.Nil(t, err)
		assert.Equal(t, domain.OutcomeStatusSuccess, outcome.Status)
		assert.Equal(t, 1, suite.recordRepo.Count())
	})
}

type productRecognizer struct {
	text string
}

func (p *productRecognizer) Recognize(ctx context.Context, data []byte) *domain.RecognitionResult {
	return &domain.RecognitionResult{Text: p.text, Confidence: 0.8, Status: domain.RecognitionStatusSuccess}
}

func TestRateLimit(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Unix(1700000000, 0)}
	limiter := rateLimitRepo.CreateRateLimitRepo(
		rateLimitMemory.CreateMemoryRateLimit(2, time.Minute, rateLimitMemory.WithClock(clock.Now)),
		loggerKit.NewNopLogger(),
	)
	suite := createTestSuite(t, suiteConfig{rateLimitRepo: limiter})

	for i := 0; i < 2; i++ {
		outcome, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte(fmt.Sprint(i))})
		assert.Nil(t, err)
		assert.Equal(t, domain.OutcomeStatusSuccess, outcome.Status)
	}

	denied, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte("2")})
	assert.Nil(t, err)
	assert.Equal(t, domain.OutcomeStatusRateLimited, denied.Status)
	assert.ErrorIs(t, denied.Err, domain.ErrRateLimited)
	assert.Equal(t, 60, denied.RetryAfterSeconds)
	assert.Equal(t, 2, suite.recordRepo.Count())
	assert.Equal(t, 2, suite.recognizer.Calls())

	other, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-2", Data: []byte("2")})
	assert.Nil(t, err)
	assert.Equal(t, domain.OutcomeStatusSuccess, other.Status)

	clock.Add(time.Minute)

	allowed, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte("3")})
	assert.Nil(t, err)
	assert.Equal(t, domain.OutcomeStatusSuccess, allowed.Status)
}

func TestProcessBulk(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt item is isolated", func(t *testing.T) {
		suite := createTestSuite(t, suiteConfig{options: []Option{WithWorkerCount(3)}})
		requests := createBatch(6)
		requests[3].Data = corruptImage

		bulkOutcome, err := suite.useCase.ProcessBulk(ctx, "user-1", requests)
		assert.Nil(t, err)
		assert.Len(t, bulkOutcome.Items, 6)
		assert.Equal(t, 6, bulkOutcome.Total)
		assert.Equal(t, 5, bulkOutcome.Succeeded)
		assert.Equal(t, 1, bulkOutcome.Failed)
		for idx, item := range bulkOutcome.Items {
			assert.Equal(t, idx, item.Position)
			assert.Equal(t, requests[idx].FileName, item.FileName)
			if idx == 3 {
				assert.Equal(t, domain.OutcomeStatusFailed, item.Status)
				continue
			}
			assert.Equal(t, domain.OutcomeStatusSuccess, item.Status)
			assert.Equal(t, fmt.Sprintf("text of image-%d", idx), item.Result.Text)
		}
		assert.Equal(t, 6, suite.recordRepo.Count())
		for _, record := range suite.recordRepo.records {
			assert.Equal(t, "user-1", record.UserID)
		}
	})

	t.Run("batch over cap is rejected before any work", func(t *testing.T) {
		suite := createTestSuite(t, suiteConfig{options: []Option{WithMaxBatchSize(10)}})

		bulkOutcome, err := suite.useCase.ProcessBulk(ctx, "user-1", createBatch(11))
		assert.Nil(t, bulkOutcome)
		assert.ErrorIs(t, code.ParseErrorCode(err).OriginError, domain.ErrBatchTooLarge)
		assert.Equal(t, 400, code.ParseErrorCode(err).GeneralCode)
		assert.Equal(t, code.BatchTooLarge, code.ParseErrorCode(err).Code)
		assert.Equal(t, 0, suite.recordRepo.Count())
		assert.Equal(t, 0, suite.recognizer.Calls())
	})

	t.Run("empty batch is rejected", func(t *testing.T) {
		suite := createTestSuite(t, suiteConfig{})

		_, err := suite.useCase.ProcessBulk(ctx, "user-1", nil)
		assert.Equal(t, code.EmptyBatch, code.ParseErrorCode(err).Code)
	})

	t.Run("persist failure affects only its item", func(t *testing.T) {
		suite := createTestSuite(t, suiteConfig{failOn: map[string]bool{"image-2.png": true}})

		bulkOutcome, err := suite.useCase.ProcessBulk(ctx, "user-1", createBatch(5))
		assert.Nil(t, err)
		assert.Equal(t, 4, bulkOutcome.Succeeded)
		assert.Equal(t, 1, bulkOutcome.Failed)
		assert.Equal(t, domain.OutcomeStatusPersistFailed, bulkOutcome.Items[2].Status)
		assert.ErrorIs(t, bulkOutcome.Items[2].Err, domain.ErrPersist)
		assert.Equal(t, 4, suite.recordRepo.Count())
	})

	t.Run("rate limit denial does not stop the batch", func(t *testing.T) {
		clock := &testClock{now: time.Unix(1700000000, 0)}
		limiter := rateLimitRepo.CreateRateLimitRepo(
			rateLimitMemory.CreateMemoryRateLimit(3, time.Minute, rateLimitMemory.WithClock(clock.Now)),
			loggerKit.NewNopLogger(),
		)
		suite := createTestSuite(t, suiteConfig{rateLimitRepo: limiter})

		bulkOutcome, err := suite.useCase.ProcessBulk(ctx, "user-1", createBatch(5))
		assert.Nil(t, err)
		assert.Len(t, bulkOutcome.Items, 5)
		assert.Equal(t, 3, bulkOutcome.Succeeded)
		assert.Equal(t, 2, bulkOutcome.Failed)
		rateLimited := 0
		for _, item := range bulkOutcome.Items {
			if item.Status == domain.OutcomeStatusRateLimited {
				rateLimited++
			}
		}
		assert.Equal(t, 2, rateLimited)
		assert.Equal(t, 3, suite.recordRepo.Count())
	})

	t.Run("workers are bounded", func(t *testing.T) {
		var running, maxRunning int64
		recognizer := &boundedRecognizer{running: &running, maxRunning: &maxRunning}
		useCase, err := CreateOCRUseCase(recognizer, cacheNoop.CreateOCRCacheRepo(), rateLimitRepo.CreateNoOpRateLimitRepo(), &fakeRecordRepo{}, loggerKit.NewNopLogger(),
			WithWorkerCount(2),
			WithMaxBatchSize(8),
		)
		assert.Nil(t, err)

		bulkOutcome, err := useCase.ProcessBulk(ctx, "user-1", createBatch(8))
		assert.Nil(t, err)
		assert.Equal(t, 8, bulkOutcome.Succeeded)
		assert.LessOrEqual(t, atomic.LoadInt64(&maxRunning), int64(2))
	})

	t.Run("canceled batch leaves no partial records", func(t *testing.T) {
		suite := createTestSuite(t, suiteConfig{delay: time.Second, options: []Option{WithWorkerCount(1)}})
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		bulkOutcome, err := suite.useCase.ProcessBulk(ctx, "user-1", createBatch(4))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Len(t, bulkOutcome.Items, 4)
		assert.Equal(t, 4, bulkOutcome.Failed)
		for idx, item := range bulkOutcome.Items {
			assert.Equal(t, idx, item.Position)
			assert.Equal(t, domain.OutcomeStatusCanceled, item.Status)
		}
		assert.Equal(t, 0, suite.recordRepo.Count())
	})
}

type boundedRecognizer struct {
	running    *int64
	maxRunning *int64
}

func (b *boundedRecognizer) Recognize(ctx context.Context, data []byte) *domain.RecognitionResult {
	current := atomic.AddInt64(b.running, 1)
	defer atomic.AddInt64(b.running, -1)
	for {
		observed := atomic.LoadInt64(b.maxRunning)
		if current <= observed || atomic.CompareAndSwapInt64(b.maxRunning, observed, current) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return &domain.RecognitionResult{Text: string(data), Status: domain.RecognitionStatusSuccess}
}

func TestGetRecords(t *testing.T) {
	ctx := context.Background()
	suite := createTestSuite(t, suiteConfig{})

	for i := 0; i < 3; i++ {
		_, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-1", Data: []byte(fmt.Sprint(i))})
		assert.Nil(t, err)
	}
	_, err := suite.useCase.Process(ctx, &domain.ImageRequest{UserID: "user-2", Data: []byte("x")})
	assert.Nil(t, err)

	records, err := suite.useCase.GetRecords(ctx, "user-1", time.Time{}, time.Time{}, 0)
	assert.Nil(t, err)
	assert.Len(t, records, 3)

	records, err = suite.useCase.GetRecords(ctx, "user-1", time.Time{}, time.Time{}, 2)
	assert.Nil(t, err)
	assert.Len(t, records, 2)

	now := time.Now()
	_, err = suite.useCase.GetRecords(ctx, "user-1", now, now.Add(-time.Hour), 0)
	assert.Equal(t, 400, code.ParseErrorCode(err).GeneralCode)
}
