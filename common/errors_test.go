package common_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nh916/salesforce-healthcare-mcp/common"
)

func TestIsSessionInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{
			name: "standard invalid session body",
			body: `[{"message":"Session expired or invalid","errorCode":"INVALID_SESSION_ID"}]`,
			want: true,
		},
		{
			name: "different error code",
			body: `[{"message":"Required fields are missing","errorCode":"REQUIRED_FIELD_MISSING"}]`,
			want: false,
		},
		{
			name: "code buried in a non-standard body",
			body: `{"error":"INVALID_SESSION_ID"}`,
			want: true,
		},
		{
			name: "empty body",
			body: ``,
			want: false,
		},
		{
			name: "multiple entries, second is invalid session",
			body: `[{"message":"x","errorCode":"OTHER"},{"message":"y","errorCode":"INVALID_SESSION_ID"}]`,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, common.IsSessionInvalid([]byte(tt.body)))
		})
	}
}

func TestClassifyAPIError(t *testing.T) {
	t.Run("404 is not found", func(t *testing.T) {
		err := common.ClassifyAPIError(http.StatusNotFound, http.Header{}, []byte(`[{"message":"not here","errorCode":"NOT_FOUND"}]`))
		var notFound *common.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "NOT_FOUND", notFound.Code)
	})

	t.Run("entity deleted code is not found regardless of status", func(t *testing.T) {
		err := common.ClassifyAPIError(http.StatusBadRequest, http.Header{}, []byte(`[{"message":"gone","errorCode":"ENTITY_IS_DELETED"}]`))
		var notFound *common.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("429 is rate limited with retry hint", func(t *testing.T) {
		header := http.Header{}
		header.Set("Retry-After", "7")
		err := common.ClassifyAPIError(http.StatusTooManyRequests, header, []byte(`[{"message":"slow down","errorCode":"REQUEST_LIMIT_EXCEEDED"}]`))
		var rateLimited *common.RateLimitedError
		require.ErrorAs(t, err, &rateLimited)
		assert.Equal(t, 7*time.Second, rateLimited.RetryAfter)
	})

	t.Run("request limit code at 403 is rate limited", func(t *testing.T) {
		err := common.ClassifyAPIError(http.StatusForbidden, http.Header{}, []byte(`[{"message":"limit","errorCode":"REQUEST_LIMIT_EXCEEDED"}]`))
		var rateLimited *common.RateLimitedError
		require.ErrorAs(t, err, &rateLimited)
		assert.Zero(t, rateLimited.RetryAfter)
	})

	t.Run("400 with parseable body is a validation error", func(t *testing.T) {
		err := common.ClassifyAPIError(http.StatusBadRequest, http.Header{}, []byte(`[{"message":"Required fields are missing: [LastName]","errorCode":"REQUIRED_FIELD_MISSING"}]`))
		var validation *common.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "REQUIRED_FIELD_MISSING", validation.Code)
	})

	t.Run("5xx is a transport error", func(t *testing.T) {
		err := common.ClassifyAPIError(http.StatusBadGateway, http.Header{}, []byte("upstream hiccup"))
		var transport *common.TransportError
		require.ErrorAs(t, err, &transport)
		assert.Equal(t, http.StatusBadGateway, transport.StatusCode)
	})

	t.Run("unparseable 4xx body is a transport error", func(t *testing.T) {
		err := common.ClassifyAPIError(http.StatusBadRequest, http.Header{}, []byte("<html>nope</html>"))
		var transport *common.TransportError
		require.ErrorAs(t, err, &transport)
	})
}

func TestAuthErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &common.AuthError{Message: "token refresh exchange failed", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
