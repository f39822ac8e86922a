package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piclens/service/internal/response"
)

func newTestRouter(repo Repository, backend *fakeBackend) chi.Router {
	h := NewHandler(newTestService(repo, backend))
	r := chi.NewRouter()
	r.Route("/images", h.Routes)
	return r
}

func multipartBody(t *testing.T, fileName, contentType, payload, description string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte(payload))
	require.NoError(t, err)

	if description != "" {
		require.NoError(t, mw.WriteField("description", description))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestHandlerUpload(t *testing.T) {
	t.Run("accepts a valid file", func(t *testing.T) {
		router := newTestRouter(newFakeRepo(), newFakeBackend())

		body, ctype := multipartBody(t, "photo.jpg", "image/jpeg", "jpegdata", "holiday")
		req := httptest.NewRequest(http.MethodPost, "/images", body)
		req.Header.Set("Content-Type", ctype)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
	})

	t.Run("rejects a disallowed extension", func(t *testing.T) {
		backend := newFakeBackend()
		router := newTestRouter(newFakeRepo(), backend)

		body, ctype := multipartBody(t, "tool.exe", "application/octet-stream", "MZ", "")
		req := httptest.NewRequest(http.MethodPost, "/images", body)
		req.Header.Set("Content-Type", ctype)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, backend.objects)
	})

	t.Run("rejects a missing file part", func(t *testing.T) {
		router := newTestRouter(newFakeRepo(), newFakeBackend())

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("description", "no file"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/images", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlerListAndDetail(t *testing.T) {
	repo := newFakeRepo()
	backend := newFakeBackend()
	router := newTestRouter(repo, backend)
	svc := newTestService(repo, backend)

	img, err := svc.Upload(context.Background(), strings.NewReader("x"), 1, "one.png", "image/png", nil)
	require.NoError(t, err)

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/images", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
	})

	t.Run("detail", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/images/%d", img.ID), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("detail of unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/images/999", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("detail of non-numeric id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/images/abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandlerDelete(t *testing.T) {
	repo := newFakeRepo()
	backend := newFakeBackend()
	router := newTestRouter(repo, backend)
	svc := newTestService(repo, backend)

	img, err := svc.Upload(context.Background(), strings.NewReader("x"), 1, "one.png", "image/png", nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/images/%d", img.ID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Deleting again is a 404, not a server error.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/images/%d", img.ID), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
