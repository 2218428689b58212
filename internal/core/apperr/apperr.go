// Package apperr 定义业务错误分类，以及边界层统一使用的分类器。
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation     Kind = "validation"
	KindMalformedID    Kind = "malformed_id"
	KindDuplicateKey   Kind = "duplicate_key"
	KindMissingToken   Kind = "missing_token"
	KindInvalidToken   Kind = "invalid_token"
	KindExpiredToken   Kind = "expired_token"
	KindAuthentication Kind = "authentication"
	KindForbidden      Kind = "forbidden"
	KindNotFound       Kind = "not_found"
	KindUnhandled      Kind = "unhandled"
)

// kind -> HTTP 状态码
var statusOf = map[Kind]int{
	KindValidation:     http.StatusBadRequest,
	KindMalformedID:    http.StatusBadRequest,
	KindDuplicateKey:   http.StatusBadRequest,
	KindMissingToken:   http.StatusUnauthorized,
	KindInvalidToken:   http.StatusUnauthorized,
	KindExpiredToken:   http.StatusUnauthorized,
	KindAuthentication: http.StatusUnauthorized,
	KindForbidden:      http.StatusForbidden,
	KindNotFound:       http.StatusNotFound,
	KindUnhandled:      http.StatusInternalServerError,
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error     { return &Error{Kind: KindValidation, Msg: msg} }
func MalformedID() error              { return &Error{Kind: KindMalformedID, Msg: "malformatted id"} }
func DuplicateKey(msg string) error   { return &Error{Kind: KindDuplicateKey, Msg: msg} }
func MissingToken() error             { return &Error{Kind: KindMissingToken, Msg: "token missing"} }
func Authentication(msg string) error { return &Error{Kind: KindAuthentication, Msg: msg} }
func Forbidden(msg string) error      { return &Error{Kind: KindForbidden, Msg: msg} }
func NotFound(msg string) error       { return &Error{Kind: KindNotFound, Msg: msg} }

func InvalidToken(err error) error {
	return &Error{Kind: KindInvalidToken, Msg: "invalid token", Err: err}
}

func ExpiredToken(err error) error {
	return &Error{Kind: KindExpiredToken, Msg: "token expired", Err: err}
}

// KindOf 返回 err 链上第一个 *Error 的分类，找不到时为 KindUnhandled
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnhandled
}

// Classify 把任意错误映射成对外的状态码与提示语。
// 未分类的错误一律 500，且不透出内部信息。
func Classify(err error) (int, string) {
	var ae *Error
	if !errors.As(err, &ae) || ae.Kind == KindUnhandled {
		return http.StatusInternalServerError, "internal server error"
	}
	status, ok := statusOf[ae.Kind]
	if !ok {
		return http.StatusInternalServerError, "internal server error"
	}
	return status, ae.Error()
}
