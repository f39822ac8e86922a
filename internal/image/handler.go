package image

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/piclens/service/internal/response"
)

// multipartMemory caps how much of the form is buffered in memory; larger
// file parts spill to temp files.
const multipartMemory = 4 << 20

// Handler holds HTTP handlers for image endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new image Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the image endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Upload)
	r.Get("/{id}", h.Detail)
	r.Delete("/{id}", h.Delete)
}

// Upload godoc
//
//	@Summary		Upload an image
//	@Description	Accepts a multipart form with an image file and optional description.
//	@Tags			images
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file	true	"image file (jpg, jpeg, png, gif, webp; max 10 MB)"
//	@Param			description	formData	string	false	"free-text description"
//	@Success		201	{object}	response.Envelope{data=Image}
//	@Failure		400	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/images [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "please select a file to upload")
		return
	}
	defer file.Close()

	var description *string
	if d := r.FormValue("description"); d != "" {
		description = &d
	}

	img, err := h.svc.Upload(r.Context(), file, header.Size, header.Filename,
		header.Header.Get("Content-Type"), description)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrStorage):
			response.Error(w, http.StatusInternalServerError, "failed to store the uploaded file")
		default:
			response.Error(w, http.StatusInternalServerError, "failed to save image metadata")
		}
		return
	}

	response.Created(w, img)
}

// List godoc
//
//	@Summary		List images
//	@Description	Returns all uploaded images, newest first.
//	@Tags			images
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]Image}
//	@Failure		500	{object}	response.Envelope
//	@Router			/images [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	imgs, err := h.svc.ListRecent(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	if imgs == nil {
		imgs = []Image{}
	}
	response.OK(w, imgs)
}

// Detail godoc
//
//	@Summary		Get one image
//	@Tags			images
//	@Produce		json
//	@Param			id	path		int	true	"image id"
//	@Success		200	{object}	response.Envelope{data=Image}
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/images/{id} [get]
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	img, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "image not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, img)
}

// Delete godoc
//
//	@Summary		Delete an image
//	@Description	Removes the stored bytes and the metadata record. A backend
//	@Description	failure is reported as a warning; the record is removed regardless.
//	@Tags			images
//	@Produce		json
//	@Param			id	path		int	true	"image id"
//	@Success		200	{object}	response.Envelope{data=DeleteResult}
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/images/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "image not found")
			return
		}
		response.Error(w, http.StatusInternalServerError, "failed to delete image")
		return
	}

	response.OK(w, res)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.NotFound(w, "image not found")
		return 0, false
	}
	return id, true
}
