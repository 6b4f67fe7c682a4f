package ocr

import (
	"context"
	"net/http"

	"github.com/superj80820/pharmacy-ocr/domain"
	"github.com/superj80820/pharmacy-ocr/kit/code"
	loggerKit "github.com/superj80820/pharmacy-ocr/kit/logger"
	"golang.org/x/sync/errgroup"
)

// ProcessBulk runs every image through Process on at most workerCount goroutines.
// Items keep their input position, and items never started because ctx was done are reported as canceled.
func (o *ocrUseCase) ProcessBulk(ctx context.Context, userID string, requests []*domain.ImageRequest) (*domain.BulkOutcome, error) {
	if len(requests) == 0 {
		return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.EmptyBatch).AddErrorMetaData(domain.ErrEmptyBatch)
	}
	if len(requests) > o.maxBatchSize {
		return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.BatchTooLarge, o.maxBatchSize).AddErrorMetaData(domain.ErrBatchTooLarge)
	}

	items := make([]*domain.ImageOutcome, len(requests))

	var eg errgroup.Group
	eg.SetLimit(o.workerCount)
	for idx, request := range requests {
		if ctx.Err() != nil {
			break
		}
		idx := idx
		itemRequest := domain.ImageRequest{
			Position:    idx,
			FileName:    request.FileName,
			ContentType: request.ContentType,
			Data:        request.Data,
			UserID:      userID,
		}
		eg.Go(func() error {
			// the error is already carried by the outcome
			outcome, _ := o.Process(ctx, &itemRequest)
			items[idx] = outcome
			return nil
		})
	}
	eg.Wait()

	bulkOutcome := &domain.BulkOutcome{
		Items: items,
		Total: len(items),
	}
	for idx, item := range items {
		if item == nil {
			item = canceledOutcome(&domain.ImageOutcome{
				Position: idx,
				FileName: requests[idx].FileName,
			}, context.Cause(ctx))
			items[idx] = item
		}
		if item.Status == domain.OutcomeStatusSuccess {
			bulkOutcome.Succeeded++
		} else {
			bulkOutcome.Failed++
		}
	}

	o.logger.Info("bulk processed",
		loggerKit.String("user_id", userID),
		loggerKit.Int("total", bulkOutcome.Total),
		loggerKit.Int("succeeded", bulkOutcome.Succeeded),
		loggerKit.Int("failed", bulkOutcome.Failed),
	)

	if err := ctx.Err(); err != nil {
		return bulkOutcome, err
	}
	return bulkOutcome, nil
}
