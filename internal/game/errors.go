package game

import "fmt"

// RejectKind classifies why an operation was refused. The API layer maps
// kinds to HTTP statuses; the engine only cares that a rejection aborts
// the operation before any mutation.
type RejectKind string

const (
	KindValidation   RejectKind = "validation"
	KindPermission   RejectKind = "permission"
	KindTiming       RejectKind = "timing"
	KindConflict     RejectKind = "conflict"
	KindNotFound     RejectKind = "not_found"
	KindUnauthorized RejectKind = "unauthorized"
)

type Rejection struct {
	Kind RejectKind
	Msg  string
}

func (r Rejection) Error() string { return r.Msg }

func reject(kind RejectKind, format string, args ...any) error {
	return Rejection{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...any) error {
	return reject(KindValidation, format, args...)
}

func permissionf(format string, args ...any) error {
	return reject(KindPermission, format, args...)
}

func timingf(format string, args ...any) error {
	return reject(KindTiming, format, args...)
}

func conflictf(format string, args ...any) error {
	return reject(KindConflict, format, args...)
}

func notFoundf(format string, args ...any) error {
	return reject(KindNotFound, format, args...)
}

func unauthorizedf(format string, args ...any) error {
	return reject(KindUnauthorized, format, args...)
}

// KindOf extracts the rejection kind from an error, defaulting to
// validation for anything that is not a Rejection.
func KindOf(err error) RejectKind {
	if r, ok := err.(Rejection); ok {
		return r.Kind
	}
	return KindValidation
}
