package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(categories *fakeCategoryService, products *fakeProductService, debug bool) http.Handler {
	r := chi.NewRouter()
	logger := zap.NewNop()

	if categories != nil {
		NewCategoryHandler(categories, logger, debug).RegisterRoutes(r)
	}
	if products != nil {
		NewProductHandler(products, logger, debug).RegisterRoutes(r)
	}

	return r
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) middleware.ErrorResponse {
	t.Helper()

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// detailList extracts a string list such as "field" or "messages" from the error details
func detailList(t *testing.T, resp middleware.ErrorResponse, key string) []string {
	t.Helper()

	raw, ok := resp.Error.Details[key].([]interface{})
	require.True(t, ok, "details.%s missing", key)

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		values = append(values, v.(string))
	}
	return values
}
