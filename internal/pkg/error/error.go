package error

import "net/http"

type Error struct {
	httpCode  int
	errorCode int
	errorMsg  string
	errorDesc string
}

func New(httpCode, errorCode int, errorMsg string, errorDesc string) *Error {
	return &Error{
		httpCode:  httpCode,
		errorCode: errorCode,
		errorMsg:  errorMsg,
		errorDesc: errorDesc,
	}

}
func From(err error) *Error {
	if appErr, ok := err.(*Error); ok {
		return appErr
	}
	return InternalServer(err.Error())
}

// ✅ 用戶端錯誤 (400 系列)
func BadRequest(errorDesc string, errorCode ...int) *Error {
	errCode := BAD_REQUEST_BODY
	if len(errorCode) > 0 {
		errCode = errorCode[0]
	}
	return New(http.StatusBadRequest, errCode, "bad-request", errorDesc)
}

func BadRequestBody(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_BODY, "bad-request-body", errorDesc)
}

func BadRequestHeaders(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_HEADERS, "bad-request-headers", errorDesc)
}

// 實際讀到的 body 比 Content-Length 宣告的短
func IncompleteBody(errorDesc string) *Error {
	return New(http.StatusBadRequest, INCOMPLETE_BODY, "incomplete-body", errorDesc)
}

func LengthRequired(errorDesc string) *Error {
	return New(http.StatusLengthRequired, LENGTH_REQUIRED, "length-required", errorDesc)
}

func PayloadTooLarge(errorDesc string) *Error {
	return New(http.StatusRequestEntityTooLarge, PAYLOAD_TOO_LARGE, "payload-too-large", errorDesc)
}

func MethodNotAllowed(errorDesc string) *Error {
	return New(http.StatusMethodNotAllowed, METHOD_NOT_ALLOWED, "method-not-allowed", errorDesc)
}

// ✅ 資源找不到 (404)
func NotFound(errorDesc string, errorCode ...int) *Error {
	errCode := NOT_FOUND
	if len(errorCode) > 0 {
		errCode = errorCode[0]
	}
	return New(http.StatusNotFound, errCode, "not-found", errorDesc)
}

// ✅ 伺服器內部錯誤 (500 系列)
func InternalServer(errorDesc string) *Error {
	return New(http.StatusInternalServerError, INTERNAL_ERROR, "internal-server-error", errorDesc)
}

func StorageError(errorDesc string) *Error {
	return New(http.StatusInternalServerError, STORAGE_ERROR, "storage-error", errorDesc)
}

func ServiceUnavailable(errorDesc string) *Error {
	return New(http.StatusServiceUnavailable, SERVICE_UNAVAILABLE, "service-unavailable", errorDesc)
}

// ✅ 轉送錯誤 (502, 504)
func RelayError(errorDesc string) *Error {
	return New(http.StatusBadGateway, RELAY_ERROR, "relay-failed", errorDesc)
}

func GatewayTimeout(errorDesc string) *Error {
	return New(http.StatusGatewayTimeout, GATEWAY_TIMEOUT, "gateway-timeout", errorDesc)
}

func (e *Error) HttpCode() int {
	return e.httpCode
}

func (e *Error) ErrorCode() int {
	return e.errorCode
}
func (e *Error) ErrorDesc() string {
	return e.errorDesc
}
func (e *Error) Error() string {
	return e.errorMsg
}
func MapHttpStatusToError(status int, desc string) *Error {
	switch status {
	case http.StatusBadRequest:
		return BadRequest(desc)
	case http.StatusNotFound:
		return NotFound(desc)
	case http.StatusMethodNotAllowed:
		return MethodNotAllowed(desc)
	case http.StatusLengthRequired:
		return LengthRequired(desc)
	case http.StatusRequestEntityTooLarge:
		return PayloadTooLarge(desc)
	case http.StatusInternalServerError:
		return InternalServer(desc)
	case http.StatusBadGateway:
		return RelayError(desc)
	case http.StatusServiceUnavailable:
		return ServiceUnavailable(desc)
	case http.StatusGatewayTimeout:
		return GatewayTimeout(desc)
	default:
		return InternalServer(desc)
	}
}
