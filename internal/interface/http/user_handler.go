package handlers

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/internal/domain/entity"
	"github.com/oksasatya/blogsphere/pkg/response"
	"github.com/oksasatya/blogsphere/pkg/validation"
)

const maxAvatarBytes = 2 << 20

var avatarTypes = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

type UserHandler struct {
	Users  *application.UserService
	Posts  *application.PostService
	Logger *logrus.Logger
}

func NewUserHandler(users *application.UserService, posts *application.PostService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Posts: posts, Logger: logger}
}

type updateProfileRequest struct {
	FullName string `form:"full_name" json:"full_name" binding:"max=128"`
	Bio      string `form:"bio" json:"bio" binding:"max=1024"`
	Email    string `form:"email" json:"email" binding:"omitempty,email"`
}

func profileView(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"full_name":  u.FullName,
		"bio":        u.Bio,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// GetProfile shows the principal's own profile and posts.
func (h *UserHandler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	uid := principal(c)
	u, err := h.Users.GetProfile(ctx, uid)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	posts, err := h.Posts.ListPostsByAuthor(ctx, uid)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": profileView(u), "posts": posts}, "profile", map[string]any{"post_count": len(posts)})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in := application.UpdateProfileInput{
		FullName: strings.TrimSpace(req.FullName),
		Bio:      strings.TrimSpace(req.Bio),
		Email:    strings.TrimSpace(req.Email),
	}
	if _, err := h.Users.UpdateProfile(c.Request.Context(), principal(c), in); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	seeOther(c, "/profile")
}

// UploadAvatar accepts a multipart "avatar" image.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"avatar": "is required"})
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"avatar": "must be at most 2MB"})
		return
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !avatarTypes[ext] {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"avatar": "must be an image"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = mime.TypeByExtension(ext)
	}
	if _, err := h.Users.UploadAvatar(c.Request.Context(), principal(c), f, fh.Filename, contentType); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	seeOther(c, "/profile")
}
