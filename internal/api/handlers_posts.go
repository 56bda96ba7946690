package api

import (
	"net/http"

	"github.com/demoapp/userapi/internal/httpd"
	"github.com/demoapp/userapi/internal/model"
)

// ListPosts handles GET /v1/posts.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.Posts().List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	httpd.JSON(w, http.StatusOK, posts)
}
