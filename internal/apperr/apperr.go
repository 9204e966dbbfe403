// Package apperr defines the static error taxonomy used across the
// provisioner: validation, upstream-provider, business-rule, and
// unknown. Provider error codes are mapped into the taxonomy at the
// adapter boundary, ahead of time, never discovered per request.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/smithy-go"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUpstream
	KindBusiness
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	case KindBusiness:
		return "business"
	default:
		return "unknown"
	}
}

// Error is a tagged error carrying its taxonomy kind, the operation
// that produced it, and an optional message and cause.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the taxonomy kind of err, or KindUnknown for errors
// created outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HTTPStatus maps an error's kind to the status reported on the HTTP
// surface. Business-rule failures that reach a handler are lookup
// failures, hence 404; callers see the original message only for
// client-caused kinds.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindBusiness:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// awsKinds maps provider error codes onto the taxonomy. Codes absent
// from the table classify as upstream.
var awsKinds = map[string]Kind{
	"OrganizationNotFoundException":    KindBusiness,
	"OrganizationStateException":       KindBusiness,
	"EntityNotFoundException":          KindBusiness,
	"EntityStateException":             KindBusiness,
	"EntityAlreadyRegisteredException": KindBusiness,
	"MailDomainNotFoundException":      KindBusiness,
	"MailDomainInUseException":         KindBusiness,
	"DomainNotFoundException":          KindBusiness,
	"NameAvailabilityException":        KindBusiness,
	"ReservedNameException":            KindValidation,
	"InvalidParameterException":        KindValidation,
	"ValidationException":              KindValidation,
	"InvalidInput":                     KindValidation,
	"InvalidParameterValue":            KindValidation,
	"InvalidDomainName":                KindValidation,
	"ResourceNotFoundException":        KindBusiness,
	"NoSuchHostedZone":                 KindBusiness,
	"HostedZoneAlreadyExists":          KindBusiness,
	"EntityAlreadyExists":              KindBusiness,
	"DirectoryUnavailableException":    KindUpstream,
	"LimitExceededException":           KindUpstream,
	"TooManyRequestsException":         KindUpstream,
}

// FromAWS classifies an AWS SDK call error into the taxonomy. Typed
// API errors are looked up by code; transport and credential failures
// are upstream-provider errors.
func FromAWS(op string, err error) *Error {
	var api smithy.APIError
	if errors.As(err, &api) {
		kind, ok := awsKinds[api.ErrorCode()]
		if !ok {
			kind = KindUpstream
		}
		return &Error{Kind: kind, Op: op, Msg: api.ErrorMessage(), Err: err}
	}
	return &Error{Kind: KindUpstream, Op: op, Err: err}
}
