package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorClass
	}{
		{http.StatusOK, ""},
		{http.StatusNotModified, ""},
		{http.StatusBadRequest, ErrorClassClient},
		{http.StatusNotFound, ErrorClassClient},
		{http.StatusTooManyRequests, ErrorClassRateLimit},
		{http.StatusInternalServerError, ErrorClassServer},
		{http.StatusServiceUnavailable, ErrorClassServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, classifyStatus(tt.status))
		})
	}
}

func TestCodeForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusBadRequest, CodeBadRequest},
		{http.StatusUnauthorized, CodeUnauthorized},
		{http.StatusForbidden, CodeForbidden},
		{http.StatusNotFound, CodeNotFound},
		{http.StatusTooManyRequests, CodeRateLimited},
		{http.StatusBadGateway, CodeServerError},
		{http.StatusConflict, CodeAPIError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, codeForStatus(tt.status))
		})
	}
}

func TestShouldRetry(t *testing.T) {
	assert.True(t, shouldRetry(ErrorClassServer))
	assert.True(t, shouldRetry(ErrorClassRateLimit))
	assert.True(t, shouldRetry(ErrorClassNetwork))
	assert.False(t, shouldRetry(ErrorClassClient))
	assert.False(t, shouldRetry(ErrorClassDecode))
	assert.False(t, shouldRetry(""))
}

func TestError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &Error{
		StatusCode: 0,
		Class:      ErrorClassNetwork,
		Code:       CodeNetworkError,
		Err:        cause,
	}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "API network error (status 0): : connection reset", err.Error())
	assert.Equal(t, []string{"connection reset"}, err.ErrorMessages())

	err = &Error{StatusCode: 404, Class: ErrorClassClient, Code: CodeNotFound, Messages: []string{"Not found."}}
	assert.Equal(t, "API client error (status 404): Not found.", err.Error())
	assert.Equal(t, CodeNotFound, err.ErrorCode())
}

func TestParseErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"detail", `{"detail": "Authentication credentials were not provided."}`, []string{"Authentication credentials were not provided."}},
		{"field lists", `{"b": ["second"], "a": ["first", "also first"]}`, []string{"first", "also first", "second"}},
		{"detail then fields", `{"detail": "Bad.", "q": ["Too long."]}`, []string{"Bad.", "Too long."}},
		{"not an object", `["x"]`, nil},
		{"not json", `<html>`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseErrorMessages([]byte(tt.body)))
		})
	}
}
