package posts

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"blog-service/internal/shared/httpx"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /posts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	in, err := httpx.Decode[PostInput](r)
	if err != nil {
		return httpx.NewError(http.StatusBadRequest, CodeMalformedBody,
			"Validation failed.", "The request body is not a valid JSON object of string fields.")
	}
	p, err := h.service.Create(r.Context(), in)
	if err != nil {
		return asHTTPError(err)
	}
	httpx.WriteJSON(w, CreatePostResponse{
		Post:      p,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}, http.StatusCreated)
	return nil
}

// List handles GET /posts. Present-but-empty query params still count
// as supplied, so ?sort= fails validation instead of being dropped.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	var sortKey, direction *string
	if q.Has("sort") {
		v := q.Get("sort")
		sortKey = &v
	}
	if q.Has("direction") {
		v := q.Get("direction")
		direction = &v
	}
	out, err := h.service.List(r.Context(), sortKey, direction)
	if err != nil {
		return asHTTPError(err)
	}
	httpx.WriteJSON(w, out, http.StatusOK)
	return nil
}

// Update handles PUT /posts/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) error {
	id, err := postID(r)
	if err != nil {
		return err
	}
	in, derr := httpx.Decode[PostInput](r)
	if derr != nil {
		return httpx.NewError(http.StatusBadRequest, CodeMalformedBody,
			"Validation failed.", "The request body is not a valid JSON object of string fields.")
	}
	p, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		return asHTTPError(err)
	}
	httpx.WriteJSON(w, p, http.StatusOK)
	return nil
}

// Delete handles DELETE /posts/{id} and responds with the removed post.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	id, err := postID(r)
	if err != nil {
		return err
	}
	p, err := h.service.Delete(r.Context(), id)
	if err != nil {
		return asHTTPError(err)
	}
	httpx.WriteJSON(w, p, http.StatusOK)
	return nil
}

// Search handles GET /posts/search with one query param per schema field.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	criteria := map[string]string{}
	for _, f := range h.service.Schema().Fields() {
		criteria[f] = q.Get(f)
	}
	httpx.WriteJSON(w, h.service.Search(r.Context(), criteria), http.StatusOK)
	return nil
}

func postID(r *http.Request) (uint64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, httpx.NewError(http.StatusBadRequest, CodeInvalidPostID,
			"Validation failed.", "The id path segment must be a positive integer. ["+raw+"]")
	}
	return id, nil
}

func asHTTPError(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return httpx.NewError(http.StatusBadRequest, ve.Code, "Validation failed.", ve.Details...)
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return httpx.NewError(http.StatusNotFound, "RESOURCE_NOT_FOUND",
			"The requested resource could not be found.",
			"No records match the provided ID "+strconv.FormatUint(nf.ID, 10)+".")
	}
	return err
}
