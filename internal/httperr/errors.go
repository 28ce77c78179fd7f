package httperr

import "errors"

// ===============================
// Taxonomia de erros do engine
// ===============================

type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
	KindTransient  Kind = "transient"
)

// Error carrega um código de máquina estável (ex: "time_conflict").
type Error struct {
	Kind Kind
	Code string
}

func (e Error) Error() string {
	return e.Code
}

func ErrValidation(code string) error {
	return Error{Kind: KindValidation, Code: code}
}

func ErrConflict(code string) error {
	return Error{Kind: KindConflict, Code: code}
}

func ErrNotFound(code string) error {
	return Error{Kind: KindNotFound, Code: code}
}

func ErrForbidden(code string) error {
	return Error{Kind: KindForbidden, Code: code}
}

func ErrTransient(code string) error {
	return Error{Kind: KindTransient, Code: code}
}

func IsKind(err error, kind Kind) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func HasCode(err error, code string) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
