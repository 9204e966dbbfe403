package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(New(KindValidation, "decode", "bad input")))
	assert.Equal(t, KindBusiness, KindOf(fmt.Errorf("outer: %w", New(KindBusiness, "lookup", "no row"))))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(New(KindValidation, "decode", "bad")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(New(KindBusiness, "lookup", "missing")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(New(KindUpstream, "create org", "throttled")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestErrorString(t *testing.T) {
	cause := errors.New("connection reset")
	e := Wrap(KindUpstream, "register mail domain", cause)
	assert.Equal(t, "register mail domain: connection reset", e.Error())
	assert.ErrorIs(t, e, cause)

	e2 := Newf(KindBusiness, "lookup organization", "no organization for contact %d", 42)
	assert.Equal(t, "lookup organization: no organization for contact 42", e2.Error())
}

func TestFromAWS_KnownCode(t *testing.T) {
	err := &smithy.GenericAPIError{Code: "OrganizationNotFoundException", Message: "no such org"}
	e := FromAWS("describe organization", err)
	require.Equal(t, KindBusiness, e.Kind)
	assert.Equal(t, "no such org", e.Msg)
	assert.ErrorIs(t, e, err)
}

func TestFromAWS_UnknownCodeIsUpstream(t *testing.T) {
	err := &smithy.GenericAPIError{Code: "InternalServerError", Message: "oops"}
	e := FromAWS("create user", err)
	assert.Equal(t, KindUpstream, e.Kind)
}

func TestFromAWS_TransportErrorIsUpstream(t *testing.T) {
	e := FromAWS("create organization", errors.New("dial tcp: i/o timeout"))
	assert.Equal(t, KindUpstream, e.Kind)
}

func TestFromAWS_ValidationCode(t *testing.T) {
	err := &smithy.GenericAPIError{Code: "InvalidParameterException", Message: "bad alias"}
	e := FromAWS("create organization", err)
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(e))
}
