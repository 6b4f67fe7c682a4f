package mq

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/superj80820/pharmacy-ocr/domain"
	mqKit "github.com/superj80820/pharmacy-ocr/kit/mq"
)

// RecordProcessedEvent is the payload published once a record is stored, the text is left out.
type RecordProcessedEvent struct {
	RecordID    int64                    `json:"record_id,string"`
	UserID      string                   `json:"user_id"`
	ImageDigest string                   `json:"image_digest"`
	FileName    string                   `json:"file_name"`
	Status      domain.RecognitionStatus `json:"status"`
	Confidence  float64                  `json:"confidence"`
	CacheHit    bool                     `json:"cache_hit"`
	CreatedAt   time.Time                `json:"created_at"`
}

var _ mqKit.Message = (*RecordProcessedEvent)(nil)

func (r *RecordProcessedEvent) GetKey() string {
	return r.UserID
}

func (r *RecordProcessedEvent) Marshal() ([]byte, error) {
	marshal, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "marshal failed")
	}
	return marshal, nil
}

type recordEventRepo struct {
	producer mqKit.Producer
}

var _ domain.RecordEventRepo = (*recordEventRepo)(nil)

func CreateRecordEventRepo(producer mqKit.Producer) domain.RecordEventRepo {
	return &recordEventRepo{
		producer: producer,
	}
}

func (r *recordEventRepo) Publish(ctx context.Context, record *domain.ProcessedRecord) error {
	event := &RecordProcessedEvent{
		RecordID:    record.ID,
		UserID:      record.UserID,
		ImageDigest: record.ImageDigest,
		FileName:    record.FileName,
		CacheHit:    record.CacheHit,
		CreatedAt:   record.CreatedAt,
	}
	if record.Result != nil {
		event.Status = record.Result.Status
		event.Confidence = record.Result.Confidence
	}
	if err := r.producer.Produce(ctx, event); err != nil {
		return errors.Wrap(err, "produce record event failed, record id: "+strconv.FormatInt(record.ID, 10))
	}
	return nil
}

type noopRecordEventRepo struct{}

// CreateNoOpRecordEventRepo is used when no broker is configured.
func CreateNoOpRecordEventRepo() domain.RecordEventRepo {
	return &noopRecordEventRepo{}
}

func (*noopRecordEventRepo) Publish(ctx context.Context, record *domain.ProcessedRecord) error {
	return nil
}
