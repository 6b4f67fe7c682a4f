package orm

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/superj80820/pharmacy-ocr/domain"
	ormKit "github.com/superj80820/pharmacy-ocr/kit/orm"
	postgresContainer "github.com/superj80820/pharmacy-ocr/kit/testing/postgres/container"
)

func testProcessedRecordRepo(t *testing.T, processedRecordRepo domain.ProcessedRecordRepo) {
	ctx := context.Background()
	baseTime := time.Date(2024, 1, 30, 8, 0, 0, 0, time.UTC)

	result := &domain.RecognitionResult{
		Text:       "AMOXICILLIN 250mg capsule",
		Confidence: 0.8,
		Status:     domain.RecognitionStatusSuccess,
		Product:    &domain.ProductInfo{Strength: "250mg", DosageForm: "capsule"},
	}

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := processedRecordRepo.Save(ctx, &domain.ProcessedRecord{
			UserID:      "user-1",
			ImageDigest: "digest",
			FileName:    "label.png",
			Result:      result,
			CacheHit:    i > 0,
			CreatedAt:   baseTime.Add(time.Duration(i) * time.Minute),
		})
		assert.Nil(t, err)
		assert.NotZero(t, id)
		ids = append(ids, id)
	}
	_, err := processedRecordRepo.Save(ctx, &domain.ProcessedRecord{
		UserID:    "user-2",
		Result:    &domain.RecognitionResult{Status: domain.RecognitionStatusFailed, Error: "corrupt"},
		CreatedAt: baseTime,
	})
	assert.Nil(t, err)

	records, err := processedRecordRepo.ListByUser(ctx, "user-1", time.Time{}, time.Time{}, 0)
	assert.Nil(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, ids[2], records[0].ID)
	assert.Equal(t, ids[0], records[2].ID)
	assert.Equal(t, result, records[0].Result)
	assert.True(t, records[0].CacheHit)
	assert.False(t, records[2].CacheHit)
	assert.True(t, baseTime.Equal(records[2].CreatedAt))

	records, err = processedRecordRepo.ListByUser(ctx, "user-1", baseTime.Add(time.Minute), baseTime.Add(2*time.Minute), 10)
	assert.Nil(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, ids[1], records[0].ID)

	records, err = processedRecordRepo.ListByUser(ctx, "user-1", time.Time{}, time.Time{}, 2)
	assert.Nil(t, err)
	assert.Len(t, records, 2)

	records, err = processedRecordRepo.ListByUser(ctx, "user-3", time.Time{}, time.Time{}, 0)
	assert.Nil(t, err)
	assert.Len(t, records, 0)

	_, err = processedRecordRepo.Save(ctx, &domain.ProcessedRecord{ID: ids[0], UserID: "user-1", Result: result})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = processedRecordRepo.Save(ctx, &domain.ProcessedRecord{UserID: "user-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidData)

	canceledCtx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = processedRecordRepo.Save(canceledCtx, &domain.ProcessedRecord{UserID: "user-1", Result: result})
	assert.NotNil(t, err)
}

func TestProcessedRecordRepoSQLite(t *testing.T) {
	ormDB, err := ormKit.CreateDB(
		ormKit.UseSQLite(filepath.Join(t.TempDir(), "ocr.db")),
		ormKit.WithAutoMigrate(&ProcessedRecordEntity{}),
	)
	assert.Nil(t, err)
	defer ormDB.Close()

	testProcessedRecordRepo(t, CreateProcessedRecordRepo(ormDB))
}

func TestProcessedRecordRepoPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skip postgres container test in short mode")
	}
	ctx := context.Background()

	postgres, err := postgresContainer.CreatePostgres(ctx, "./schema.sql")
	assert.Nil(t, err)
	defer postgres.Terminate(ctx)

	ormDB, err := ormKit.CreateDB(ormKit.UsePostgres(postgres.GetURI()))
	assert.Nil(t, err)
	defer ormDB.Close()

	testProcessedRecordRepo(t, CreateProcessedRecordRepo(ormDB))
}

func TestErrorsIsDuplicate(t *testing.T) {
	assert.True(t, errors.Is(errors.Wrap(domain.ErrDuplicate, "wrap"), domain.ErrDuplicate))
}
