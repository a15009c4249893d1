package http

import (
	"net/http"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
)

// PostsHandler serves announcements.
type PostsHandler struct {
	Store store.Store
	Posts *service.PostService
	Media media.Store
}

// HandleCreate publishes an announcement under the caller's seat.
//
//	@Summary	Publish a post
//	@Tags		Posts
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		heading		formData	string	true	"Heading, at most 100 characters"
//	@Param		description	formData	string	false	"Body, limited HTML"
//	@Param		image		formData	file	true	"Cover image"
//	@Success	201			{object}	rostersdk.Post
//	@Failure	400			{object}	rostersdk.ErrorResponse
//	@Failure	403			{object}	rostersdk.ErrorResponse	"Caller holds no moderator seat"
//	@Router		/v1/posts [post].
func (h *PostsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	p, err := h.Posts.Create(r.Context(), actor, service.PostInput{
		Heading:     r.FormValue("heading"),
		Description: r.FormValue("description"),
		Image:       formFile(r, "image"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, toPost(h.Media, p))
}

// HandleFeed pages through every post, newest first.
//
//	@Summary	List posts
//	@Tags		Posts
//	@Produce	json
//	@Param		cursor	query		string	false	"Cursor from the previous page"
//	@Success	200		{object}	rostersdk.PostPage
//	@Failure	400		{object}	rostersdk.ErrorResponse	"Malformed cursor"
//	@Router		/v1/feed [get].
func (h *PostsHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	page, err := h.Posts.Feed(r.Context(), r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toPage(page, func(p domain.Post) rostersdk.Post {
		return toPost(h.Media, p)
	}))
}

// HandleNotifications returns recent posts from the caller's departments.
//
//	@Summary		Notification digest
//	@Description	Posts from the caller's departments published in the last 48 hours.
//	@Tags			Posts
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}	rostersdk.Post
//	@Router			/v1/notifications [get].
func (h *PostsHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}

	posts, err := h.Posts.Digest(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, mapSlice(posts, func(p domain.Post) rostersdk.Post {
		return toDigestPost(h.Media, p)
	}))
}
