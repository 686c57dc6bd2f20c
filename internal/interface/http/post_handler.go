package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
	"github.com/oksasatya/blogsphere/pkg/response"
	"github.com/oksasatya/blogsphere/pkg/validation"
)

type PostHandler struct {
	Posts  *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(posts *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Posts: posts, Logger: logger}
}

// Post forms carry no author field; the author is always the principal.
type postRequest struct {
	Title   string `form:"title" json:"title" binding:"required"`
	Content string `form:"content" json:"content" binding:"required"`
	Version int    `form:"version" json:"version" binding:"min=0"`
}

type searchRequest struct {
	Q    string `form:"q"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

type commentRequest struct {
	Content string `form:"content" json:"content" binding:"required"`
}

func principal(c *gin.Context) string {
	uid, _ := middleware.RequestContext(c).Principal()
	return uid
}

func postPath(id string) string { return "/post/" + id }

func (h *PostHandler) Index(c *gin.Context) {
	posts, err := h.Posts.ListPosts(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"posts": posts, "viewer": viewer(c)}, "posts", map[string]any{"count": len(posts)})
}

func (h *PostHandler) Show(c *gin.Context) {
	p, err := h.Posts.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"post": p, "viewer": viewer(c)}, "post", nil)
}

// NewForm describes an empty post form.
func (h *PostHandler) NewForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"fields": []string{"title", "content"}, "viewer": viewer(c)}, "new post", nil)
}

func (h *PostHandler) Create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if _, err := h.Posts.CreatePost(c.Request.Context(), principal(c), req.Title, req.Content); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	seeOther(c, "/")
}

// EditForm returns the post with its version for an edit form.
func (h *PostHandler) EditForm(c *gin.Context) {
	p, err := h.Posts.GetPostForEdit(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"post": p, "viewer": viewer(c)}, "edit post", nil)
}

func (h *PostHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		// absence and ownership still outrank a bad payload
		if _, perr := h.Posts.GetPostForEdit(c.Request.Context(), principal(c), id); perr != nil {
			respondError(c, h.Logger, perr)
			return
		}
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in := application.UpdatePostInput{Title: req.Title, Body: req.Content, Version: req.Version}
	if _, err := h.Posts.UpdatePost(c.Request.Context(), principal(c), id, in); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	seeOther(c, postPath(id))
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.Posts.DeletePost(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	seeOther(c, "/")
}

func (h *PostHandler) Comment(c *gin.Context) {
	id := c.Param("id")
	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if _, err := h.Posts.AddComment(c.Request.Context(), principal(c), id, req.Content); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	seeOther(c, postPath(id))
}

func (h *PostHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	posts, err := h.Posts.SearchPosts(c.Request.Context(), req.Q, req.Size)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"posts": posts, "query": req.Q}, "search", map[string]any{"count": len(posts)})
}
