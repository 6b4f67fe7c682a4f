package orm

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/superj80820/pharmacy-ocr/domain"
	ormKit "github.com/superj80820/pharmacy-ocr/kit/orm"
	utilKit "github.com/superj80820/pharmacy-ocr/kit/util"
)

const tableName = "processed_records"

type ProcessedRecordEntity struct {
	ID          int64                     `gorm:"column:id;primaryKey;autoIncrement:false"`
	UserID      string                    `gorm:"column:user_id;size:64;not null;index:idx_processed_records_user_created,priority:1"`
	ImageDigest string                    `gorm:"column:image_digest;size:64;not null"`
	FileName    string                    `gorm:"column:file_name;size:255"`
	Status      string                    `gorm:"column:status;size:16;not null"`
	Result      *domain.RecognitionResult `gorm:"column:result;serializer:json"`
	CacheHit    bool                      `gorm:"column:cache_hit;not null"`
	CreatedAt   time.Time                 `gorm:"column:created_at;not null;index:idx_processed_records_user_created,priority:2"`
}

func (ProcessedRecordEntity) TableName() string {
	return tableName
}

type processedRecordRepo struct {
	orm *ormKit.DB
}

var _ domain.ProcessedRecordRepo = (*processedRecordRepo)(nil)

func CreateProcessedRecordRepo(orm *ormKit.DB) domain.ProcessedRecordRepo {
	return &processedRecordRepo{
		orm: orm,
	}
}

func (p *processedRecordRepo) Save(ctx context.Context, record *domain.ProcessedRecord) (int64, error) {
	if record == nil || record.Result == nil {
		return 0, errors.Wrap(domain.ErrInvalidData, "record without result")
	}
	id := record.ID
	if id == 0 {
		id = utilKit.GetSnowflakeIDInt64()
	}
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	entity := ProcessedRecordEntity{
		ID:          id,
		UserID:      record.UserID,
		ImageDigest: record.ImageDigest,
		FileName:    record.FileName,
		Status:      string(record.Result.Status),
		Result:      record.Result,
		CacheHit:    record.CacheHit,
		CreatedAt:   createdAt.UTC(),
	}
	if err := p.orm.WithContext(ctx).Create(&entity).Error; errors.Is(err, ormKit.ErrDuplicatedKey) {
		return 0, errors.Wrap(domain.ErrDuplicate, "record id duplicated")
	} else if err != nil {
		return 0, errors.Wrap(err, "create record failed")
	}
	return id, nil
}

// ListByUser returns records created in [from, to), newest first. A zero to means no upper bound.
func (p *processedRecordRepo) ListByUser(ctx context.Context, userID string, from, to time.Time, limit int) ([]*domain.ProcessedRecord, error) {
	// SELECT * FROM processed_records WHERE user_id = ? AND created_at >= ? AND created_at < ? ORDER BY created_at DESC, id DESC LIMIT ?
	builder := sq.
		Select("*").
		From(tableName).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"created_at": from.UTC()}).
		OrderBy("created_at DESC", "id DESC")
	if !to.IsZero() {
		builder = builder.Where(sq.Lt{"created_at": to.UTC()})
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "to sql failed")
	}

	var entities []*ProcessedRecordEntity
	if err := p.orm.WithContext(ctx).Raw(sql, args...).Scan(&entities).Error; err != nil {
		return nil, errors.Wrap(err, "query records failed")
	}

	records := make([]*domain.ProcessedRecord, len(entities))
	for idx, entity := range entities {
		records[idx] = &domain.ProcessedRecord{
			ID:          entity.ID,
			UserID:      entity.UserID,
			ImageDigest: entity.ImageDigest,
			FileName:    entity.FileName,
			Result:      entity.Result,
			CacheHit:    entity.CacheHit,
			CreatedAt:   entity.CreatedAt,
		}
	}
	return records, nil
}
