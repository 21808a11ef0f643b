package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/immobarok/mailbox-backend/internal/http/response"
	"github.com/immobarok/mailbox-backend/internal/observability"
	"github.com/immobarok/mailbox-backend/internal/service"
)

type PostHandler struct {
	postSvc    service.PostServiceInterface
	storageSvc service.StorageService
}

func NewPostHandler(postSvc service.PostServiceInterface, storageSvc service.StorageService) *PostHandler {
	return &PostHandler{postSvc: postSvc, storageSvc: storageSvc}
}

type createPostRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	ImageURLs []string `json:"image_urls"`
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, userID, err := authClaims(r)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}

	post, err := h.postSvc.CreatePost(r.Context(), userID, req.Title, req.Content, req.ImageURLs)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create post", nil)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "post.create",
		ActorUserID: observability.ActorUserID(userID),
		TargetType:  "post",
		TargetID:    strconv.FormatUint(uint64(post.ID), 10),
		Action:      "create",
		Outcome:     "success",
		Reason:      "post_created",
	}, "image_count", len(post.Images))
	response.JSON(w, r, http.StatusCreated, post)
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postSvc.List(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list posts", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, posts)
}

func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid post id", nil)
		return
	}
	post, err := h.postSvc.GetByID(r.Context(), uint(id64))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "post not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load post", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, post)
}

// Upload accepts one multipart image and stores it for later attachment to
// a post.
func (h *PostHandler) Upload(w http.ResponseWriter, r *http.Request) {
	_, userID, err := authClaims(r)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "failed to parse multipart form", nil)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "image file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.storageSvc.Upload(r.Context(), userID, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, service.ErrFileTooBig) {
			response.Error(w, r, http.StatusBadRequest, "FILE_TOO_LARGE", "file size exceeds 5MB limit", nil)
			return
		}
		if errors.Is(err, service.ErrInvalidFileType) {
			response.Error(w, r, http.StatusBadRequest, "INVALID_FILE_TYPE", "only JPEG and PNG images are allowed", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to upload image", nil)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "upload.image",
		ActorUserID: observability.ActorUserID(userID),
		TargetType:  "object",
		TargetID:    result.ObjectKey,
		Action:      "upload",
		Outcome:     "success",
		Reason:      "image_uploaded",
	}, "file_size", header.Size)
	response.JSON(w, r, http.StatusCreated, result)
}
