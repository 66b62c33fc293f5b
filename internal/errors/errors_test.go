package errors

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := EmptyDomain("age scale")
	wrapped := Wrap(base, "building layout")

	assert.Equal(t, CodeEmptyDomain, GetCode(wrapped))
	assert.True(t, HasCode(wrapped, CodeEmptyDomain))
	assert.Equal(t, "building layout: age scale has an empty domain", wrapped.Error())
}

func TestWrapPlainError(t *testing.T) {
	wrapped := Wrapf(io.ErrUnexpectedEOF, "reading %s", "data.csv")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, io.ErrUnexpectedEOF))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, WithCode(CodeInvalidInput, nil))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, io.EOF)
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(io.EOF))
}

func TestExternalServiceError(t *testing.T) {
	err := ExternalServiceError("dataset fetch", io.ErrClosedPipe)
	assert.Equal(t, CodeExternalService, err.Code)
	assert.Contains(t, err.Error(), "dataset fetch service error")
	assert.True(t, stderrors.Is(err, io.ErrClosedPipe))
}
