// Package handlertest builds humatest APIs whose requests run as a fixed
// principal, for handler tests that sit behind authentication.
package handlertest

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/bank-server/internal/auth"
	"github.com/carson-networks/bank-server/internal/policy"
)

// AsPrincipal is a huma middleware that stores p in every request context.
func AsPrincipal(p policy.Principal) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		next(huma.WithContext(ctx, auth.WithPrincipal(ctx.Context(), p)))
	}
}

// NewAPI returns a test API acting as p.
func NewAPI(t *testing.T, p policy.Principal) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	api.UseMiddleware(AsPrincipal(p))
	return api
}

// ErrorMessage decodes the {"error": ...} body of resp.
func ErrorMessage(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body.Error
}
