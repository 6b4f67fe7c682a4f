package code

import httpPKG "net/http"

// SuccessCode lets an endpoint pick a non 200 status, Data is encoded as the body.
type SuccessCode struct {
	HTTPCode int
	Data     interface{}
}

func ParseResponseSuccessCode(res interface{}) *SuccessCode {
	switch successCode := res.(type) {
	case SuccessCode:
		return &successCode
	case *SuccessCode:
		return successCode
	case nil:
		return &SuccessCode{HTTPCode: httpPKG.StatusNoContent}
	}
	return &SuccessCode{HTTPCode: httpPKG.StatusOK, Data: res}
}
