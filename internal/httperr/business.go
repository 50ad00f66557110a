package httperr

import "errors"

type Kind int

const (
	KindValidation Kind = iota
	KindStateConflict
	KindNotFound
	KindForbidden
	KindUnauthorized
)

// BusinessError is a rule violation that is returned to the caller as a
// normal outcome. Code is stable for clients, Message is for humans.
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func Validation(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

func StateConflict(code, message string) error {
	return BusinessError{Kind: KindStateConflict, Code: code, Message: message}
}

func NotFoundErr(code, message string) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func ForbiddenErr(code, message string) error {
	return BusinessError{Kind: KindForbidden, Code: code, Message: message}
}

func UnauthorizedErr(code, message string) error {
	return BusinessError{Kind: KindUnauthorized, Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

func IsKind(err error, kind Kind) bool {
	be, ok := AsBusiness(err)
	return ok && be.Kind == kind
}
