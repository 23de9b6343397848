package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dimitrije/officehub/internal/blob"
	"github.com/dimitrije/officehub/internal/hub"
	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/internal/store"
	"github.com/dimitrije/officehub/tests/testutil"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupDocumentUpload(t *testing.T) (*store.MemoryStore, *blob.MemoryStore, http.Handler) {
	t.Helper()
	h := hub.NewHub()
	go h.Run()
	records := store.NewMemoryStore(h)
	blobs := blob.NewMemoryStore("https://files.test")

	handler := NewDocumentHandler(services.NewDocumentService(records, blobs))

	app := drift.New()
	app.Use(asUser(owner))
	app.Post("/documents", handler.Upload)
	return records, blobs, app
}

func uploadRequest(target, contentType string, body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	return req
}

func TestDocumentHandler_Upload(t *testing.T) {
	records, blobs, app := setupDocumentUpload(t)

	req := uploadRequest("/documents?title=Handbook&date=2026-03-01&fileName=handbook.pdf", "application/pdf", []byte("%PDF-1.7 test"))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	doc := decodeBody[models.Document](t, rec)
	assert.Equal(t, "Handbook", doc.Title)
	assert.Equal(t, "PDF", doc.Type)
	assert.Contains(t, doc.URL, "https://files.test/documents/")

	data, contentType, ok := blobs.Object(doc.StoragePath)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, []byte("%PDF-1.7 test"), data)

	snap, err := records.List(req.Context(), "documents")
	require.NoError(t, err)
	assert.Len(t, snap.Records, 1)
}

func TestDocumentHandler_Upload_StreamsProgress(t *testing.T) {
	_, _, app := setupDocumentUpload(t)

	req := uploadRequest("/documents?title=Logo&date=2026-03-01&fileName=logo.png", "image/png", bytes.Repeat([]byte{1}, 4096))
	req.Header.Set("Accept", "text/event-stream")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "progress")
	assert.Contains(t, body, "done")
	assert.Contains(t, body, `"type":"PNG"`)
}

func TestDocumentHandler_Upload_MissingFields(t *testing.T) {
	records, _, app := setupDocumentUpload(t)

	req := uploadRequest("/documents?fileName=notes.docx", "application/octet-stream", []byte("x"))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	snap, err := records.List(req.Context(), "documents")
	require.NoError(t, err)
	assert.Empty(t, snap.Records)
}

func TestDocumentHandler_Upload_EmptyBody(t *testing.T) {
	_, _, app := setupDocumentUpload(t)

	req := uploadRequest("/documents?title=Empty&date=2026-03-01&fileName=empty.pdf", "application/pdf", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "file is empty")
}

func TestDocumentHandler_List(t *testing.T) {
	mockDocumentService := new(testutil.MockDocumentService)
	handler := NewDocumentHandler(mockDocumentService)

	mockDocumentService.On("List", mock.Anything).Return([]models.Document{
		{Meta: models.Meta{ID: "d1"}, Title: "Handbook", Date: "2026-03-01"},
	}, nil)

	app := drift.New()
	app.Use(asUser(employee))
	app.Get("/documents", handler.List)

	rec := doJSON(t, app, http.MethodGet, "/documents", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.Document](t, rec), 1)
}

func TestDocumentHandler_Delete_Employee(t *testing.T) {
	mockDocumentService := new(testutil.MockDocumentService)
	handler := NewDocumentHandler(mockDocumentService)

	mockDocumentService.On("Delete", mock.Anything, employee, "d1").Return(services.ErrForbidden)

	app := drift.New()
	app.Use(asUser(employee))
	app.Delete("/documents/:id", handler.Delete)

	rec := doJSON(t, app, http.MethodDelete, "/documents/d1", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
