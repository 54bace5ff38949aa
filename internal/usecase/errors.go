package usecase

import "errors"

var (
	ErrSenderIncomplete    = errors.New("sender profile is incomplete")
	ErrDeliveryUnavailable = errors.New("no delivery channel configured")
	ErrNoContentProvider   = errors.New("no content provider configured")
	ErrNoProviders         = errors.New("no enrichment provider configured")
)

// DomainError is a failure caused by the caller's input or state.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is a failure of our own infrastructure.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
