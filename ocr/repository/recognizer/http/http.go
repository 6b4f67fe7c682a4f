package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/superj80820/pharmacy-ocr/ocr/repository/recognizer"
)

type httpEngine struct {
	url    string
	client *http.Client
}

var _ recognizer.Engine = (*httpEngine)(nil)

type ocrRequest struct {
	Image string `json:"image"`
}

type ocrResponse struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
}

// CreateHTTPEngine delegates recognition to a remote service exposing POST /ocr.
func CreateHTTPEngine(url string, timeout time.Duration) recognizer.Engine {
	return &httpEngine{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (h *httpEngine) Recognize(ctx context.Context, image []byte) ([]recognizer.Word, error) {
	payloadJsonMarshal, err := json.Marshal(ocrRequest{Image: base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload failed")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url+"/ocr", bytes.NewReader(payloadJsonMarshal))
	if err != nil {
		return nil, errors.Wrap(err, "new request failed")
	}
	req.Header.Add("content-type", "application/json")

	res, err := h.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request failed")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read response failed")
	}
	if res.StatusCode != http.StatusOK {
		return nil, errors.New(fmt.Sprintf("unexpected status code: %d, response: %s", res.StatusCode, string(body)))
	}

	var response ocrResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "unmarshal json failed, response: "+string(body))
	}
	if response.Text == "" {
		return nil, nil
	}
	confidence := 1.0
	if response.Confidence != nil {
		confidence = *response.Confidence
	}
	return []recognizer.Word{{Text: response.Text, Confidence: confidence}}, nil
}
