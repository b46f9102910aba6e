// Package errors 통일된 에러 정의를 제공한다
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 에러 코드 타입
type ErrorCode string

// 미리 정의된 에러 코드
const (
	// 공통 에러 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeNotFound           ErrorCode = "1002"
	CodeTooManyRequests    ErrorCode = "1003"
	CodeInternalError      ErrorCode = "1004"
	CodeServiceUnavailable ErrorCode = "1005"

	// 비즈니스 에러 (4xxx)
	CodeEmptyResult     ErrorCode = "4001"
	CodeIngestFailed    ErrorCode = "4002"
	CodeLLMCallFailed   ErrorCode = "4003"
	CodeEmbeddingFailed ErrorCode = "4004"

	// 외부 서비스 에러 (5xxx)
	CodeDatabaseError ErrorCode = "5001"
	CodeCacheError    ErrorCode = "5002"
	CodeVectorDBError ErrorCode = "5003"
)

// AppError 애플리케이션 에러
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error error 인터페이스 구현
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 하위 에러 반환
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 상세 정보 추가
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithError 하위 에러 추가
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New 새 애플리케이션 에러 생성
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 에러 래핑
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 에러 코드를 HTTP 상태 코드로 변환
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable, CodeLLMCallFailed, CodeEmbeddingFailed, CodeVectorDBError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// 미리 정의된 에러
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrLLMCallFailed   = New(CodeLLMCallFailed, "LLM call failed")
	ErrEmbeddingFailed = New(CodeEmbeddingFailed, "embedding failed")
	ErrIngestFailed    = New(CodeIngestFailed, "announcement ingest failed")
)

// IsAppError AppError 여부 확인
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError 에러를 AppError로 변환
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
