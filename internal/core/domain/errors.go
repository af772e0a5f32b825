package domain

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the transport adapter and the article store.
var (
	ErrFetchFailed      = errors.New("fetch failed")
	ErrGetFailed        = errors.New("get failed")
	ErrCreateFailed     = errors.New("create failed")
	ErrUpdateFailed     = errors.New("update failed")
	ErrDeleteFailed     = errors.New("delete failed")
	ErrSearchFailed     = errors.New("search failed")
	ErrFilterFailed     = errors.New("filter failed")
	ErrLikeFailed       = errors.New("like failed")
	ErrBookmarkFailed   = errors.New("bookmark failed")
	ErrCategoriesFailed = errors.New("categories failed")
)

var (
	ErrMissingID       = errors.New("article id is required")
	ErrLoginRequired   = errors.New("login required")
	ErrArticleNotFound = errors.New("article not found")
	ErrInvalidArticle  = errors.New("invalid article")
	ErrUnauthorized    = errors.New("unauthorized")
)

// Failure is a message-bearing operation failure. Kind is one of the Err*Failed
// sentinels so callers can match with errors.Is; Message is what the user sees.
type Failure struct {
	Kind    error
	Message string
	// Status is the HTTP status when a response arrived, 0 otherwise. It is kept
	// for logs only.
	Status int
	Cause  error
}

// NewFailure builds a Failure of the given kind.
func NewFailure(kind error, message string, status int, cause error) *Failure {
	return &Failure{Kind: kind, Message: message, Status: status, Cause: cause}
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Cause)
	}
	return f.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (f *Failure) Unwrap() []error {
	errs := make([]error, 0, 2)
	if f.Kind != nil {
		errs = append(errs, f.Kind)
	}
	if f.Cause != nil {
		errs = append(errs, f.Cause)
	}
	return errs
}

// MessageOf returns the user-facing message of err: the Failure message when
// err carries one, err.Error() otherwise.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}
