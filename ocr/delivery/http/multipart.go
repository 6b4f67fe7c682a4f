package http

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
	"github.com/superj80820/pharmacy-ocr/domain"
	"github.com/superj80820/pharmacy-ocr/kit/code"
)

const (
	multipartMemory   = 32 << 20
	multipartOverhead = 1 << 20
)

func parseMultipart(r *http.Request, maxBodySize int64) (*multipart.Form, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.ImageTooLarge, maxBytesErr.Limit).AddErrorMetaData(err)
		}
		return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddErrorMetaData(err)
	}
	return r.MultipartForm, nil
}

// readImage reads at most maxUploadSize+1 bytes so an oversized file is still rejected by the pipeline.
func readImage(fileHeader *multipart.FileHeader, position int, maxUploadSize int64) (*domain.ImageRequest, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open multipart file failed")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "read multipart file failed")
	}

	return &domain.ImageRequest{
		Position:    position,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func isSupportedContentType(contentType string) bool {
	_, ok := domain.SupportedContentTypes[contentType]
	return ok
}
