package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/require"
)

var (
	employee = services.NewSession("u1", "lan@example.com", models.RoleEmployee)
	owner    = services.NewSession("boss", "boss@example.com", models.RoleOwner)
)

// asUser stands in for the auth middleware with a fixed session.
func asUser(s services.Session) drift.HandlerFunc {
	return func(c *drift.Context) {
		c.Set(middleware.SessionKey, s)
		c.Next()
	}
}

func doJSON(t *testing.T, app http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func ptr[T any](v T) *T { return &v }
