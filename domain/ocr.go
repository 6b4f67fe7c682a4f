package domain

import (
	"context"
	"time"
)

const cacheKeyPrefix = "ocr:image:"

type RecognitionStatus string

const (
	RecognitionStatusSuccess RecognitionStatus = "success"
	RecognitionStatusFailed  RecognitionStatus = "failed"
)

type RecognitionResult struct {
	Text           string            `json:"text"`
	Confidence     float64           `json:"confidence"`
	ProcessingTime time.Duration     `json:"processing_time_ns"`
	Status         RecognitionStatus `json:"status"`
	Error          string            `json:"error,omitempty"`
	Product        *ProductInfo      `json:"product,omitempty"`
}

func (r *RecognitionResult) IsSuccess() bool {
	return r != nil && r.Status == RecognitionStatusSuccess
}

// CacheKey is derived from image content only, so byte-identical images share one entry.
type CacheKey string

func CreateCacheKey(imageDigest string) CacheKey {
	return CacheKey(cacheKeyPrefix + imageDigest)
}

type ImageRequest struct {
	Position    int
	FileName    string
	ContentType string
	Data        []byte
	UserID      string
}

type ProcessedRecord struct {
	ID          int64              `json:"id,string"`
	UserID      string             `json:"user_id"`
	ImageDigest string             `json:"image_digest"`
	FileName    string             `json:"file_name"`
	Result      *RecognitionResult `json:"result"`
	CacheHit    bool               `json:"cache_hit"`
	CreatedAt   time.Time          `json:"created_at"`
}

type OutcomeStatus string

const (
	OutcomeStatusSuccess       OutcomeStatus = "success"
	OutcomeStatusFailed        OutcomeStatus = "failed"
	OutcomeStatusRateLimited   OutcomeStatus = "rate_limited"
	OutcomeStatusInvalid       OutcomeStatus = "invalid"
	OutcomeStatusPersistFailed OutcomeStatus = "persist_failed"
	OutcomeStatusCanceled      OutcomeStatus = "canceled"
)

type ImageOutcome struct {
	Position          int                `json:"position"`
	FileName          string             `json:"file_name,omitempty"`
	Status            OutcomeStatus      `json:"status"`
	Message           string             `json:"message,omitempty"`
	Result            *RecognitionResult `json:"result,omitempty"`
	CacheHit          bool               `json:"cache_hit"`
	RecordID          int64              `json:"record_id,omitempty,string"`
	RetryAfterSeconds int                `json:"retry_after_seconds,omitempty"`

	Err error `json:"-"`
}

type BulkOutcome struct {
	Items     []*ImageOutcome `json:"items"`
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
}

type RecognizerRepo interface {
	Recognize(ctx context.Context, image []byte) *RecognitionResult
}

type OCRCacheRepo interface {
	Get(ctx context.Context, key CacheKey) (*RecognitionResult, bool)
	Put(ctx context.Context, key CacheKey, result *RecognitionResult, ttl time.Duration)
	IsAvailable(ctx context.Context) bool
}

type ProcessedRecordRepo interface {
	Save(ctx context.Context, record *ProcessedRecord) (int64, error)
	ListByUser(ctx context.Context, userID string, from, to time.Time, limit int) ([]*ProcessedRecord, error)
}

type RecordEventRepo interface {
	Publish(ctx context.Context, record *ProcessedRecord) error
}

type OCRUseCase interface {
	Process(ctx context.Context, request *ImageRequest) (*ImageOutcome, error)
	ProcessBulk(ctx context.Context, userID string, requests []*ImageRequest) (*BulkOutcome, error)
	GetRecords(ctx context.Context, userID string, from, to time.Time, limit int) ([]*ProcessedRecord, error)
}
