package code

import (
	"encoding/json"
	"fmt"
	httpPKG "net/http"

	"github.com/pkg/errors"
)

type errorCode struct {
	GeneralCode int         `json:"-"`
	Code        int         `json:"code"`
	Message     string      `json:"message"`
	Data        interface{} `json:"data,omitempty"`
	RetryAfter  int         `json:"-"`
	OriginError error       `json:"-"`
	CallStack   string      `json:"-"`
}

func CreateHTTPError(err *errorCode) *httpErrorCode {
	return &httpErrorCode{
		HTTPCode:  err.GeneralCode,
		errorCode: err,
	}
}

type httpErrorCode struct {
	HTTPCode int `json:"http_code"`
	*errorCode
}

func (e errorCode) Error() string {
	errorStr, err := json.Marshal(CreateHTTPError(&e))
	if err != nil {
		panic(err)
	}
	return string(errorStr)
}

func (e *errorCode) AddErrorMetaData(err error) *errorCode {
	e.OriginError = err
	e.CallStack = fmt.Sprintf("%+v", err)
	return e
}

func (e *errorCode) AddCode(code int, args ...any) *errorCode {
	if httpErrorCodes, ok := errorCodes[e.GeneralCode]; ok {
		if errorCodes, ok := httpErrorCodes[code]; ok {
			e.Code = code
			e.Message = fmt.Sprintf(errorCodes, args...)
		}
	}
	return e
}

// AddData attaches a payload that is returned to the client beside the message.
func (e *errorCode) AddData(data interface{}) *errorCode {
	e.Data = data
	return e
}

// AddRetryAfter sets the Retry-After header in seconds when the error is encoded.
func (e *errorCode) AddRetryAfter(seconds int) *errorCode {
	e.RetryAfter = seconds
	return e
}

const (
	Default           = 0
	RateLimit         = 1
	InvalidBody       = 2
	Expired           = 3
	Revoke            = 4
	PasswordInvalid   = 5
	BatchTooLarge     = 6
	UnsupportedImage  = 7
	ImageTooLarge     = 8
	RecognitionFailed = 9
	PersistFailed     = 10
	Duplicate         = 11
	EmptyBatch        = 12
)

var errorCodes = map[int]map[int]string{
	httpPKG.StatusTooManyRequests: {
		Default:   "too many requests",
		RateLimit: "rate limit error. expiry: %d",
	},
	httpPKG.StatusNotFound: {
		Default: "not found",
	},
	httpPKG.StatusInternalServerError: {
		Default:       "internal error",
		PersistFailed: "persist record failed",
	},
	httpPKG.StatusBadRequest: {
		Default:          "bad request",
		InvalidBody:      "invalid body",
		BatchTooLarge:    "batch too large. max: %d",
		UnsupportedImage: "unsupported image type: %s",
		ImageTooLarge:    "image too large. max bytes: %d",
		EmptyBatch:       "batch is empty",
	},
	httpPKG.StatusUnprocessableEntity: {
		Default:           "unprocessable entity",
		RecognitionFailed: "recognition failed: %s",
	},
	httpPKG.StatusUnauthorized: {
		Default:         "unauthorized",
		Expired:         "expired",
		Revoke:          "revoke",
		PasswordInvalid: "password invalid",
	},
	httpPKG.StatusForbidden: {
		Default: "forbidden",
	},
	httpPKG.StatusConflict: {
		Default:   "conflict",
		Duplicate: "duplicate",
	},
}

type errorCodeOption func(*errorCode)

func CreateErrorCode(code int, options ...errorCodeOption) *errorCode {
	resCode := httpPKG.StatusInternalServerError
	resMessage := errorCodes[httpPKG.StatusInternalServerError][Default]
	if codes, ok := errorCodes[code]; ok {
		resCode = code

		if errorCodes, ok := codes[Default]; ok {
			resMessage = errorCodes
		}
	}

	errorCode := errorCode{
		GeneralCode: resCode,
		Code:        Default,
		Message:     resMessage,
	}

	for _, option := range options {
		option(&errorCode)
	}

	return &errorCode
}

func ParseErrorCode(err error) *errorCode {
	causeErr := errors.Cause(err)
	switch errorCode := causeErr.(type) {
	case *errorCode:
		return errorCode
	}

	errorCode := CreateErrorCode(httpPKG.StatusInternalServerError).AddErrorMetaData(err)

	return errorCode
}
