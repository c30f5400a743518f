package photos

import (
	"errors"
	"net/http"
	"strconv"

	"place-review-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Photos      *Service
	MaxFiles    int
	MaxFileSize int64
}

func (h Handlers) GetAll(c *gin.Context) {
	list, err := h.Photos.All(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	if list == nil {
		list = []Photo{}
	}
	c.JSON(http.StatusOK, list)
}

func (h Handlers) GetOne(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	v, err := h.Photos.GetOne(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h Handlers) GetAllByUser(c *gin.Context) {
	userID, ok := intParam(c, "userID")
	if !ok {
		return
	}
	list, err := h.Photos.AllByUser(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if list == nil {
		list = []View{}
	}
	c.JSON(http.StatusOK, list)
}

func (h Handlers) GetAllByPlace(c *gin.Context) {
	placeID, ok := intParam(c, "placeID")
	if !ok {
		return
	}
	list, err := h.Photos.AllByPlace(c.Request.Context(), placeID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if list == nil {
		list = []View{}
	}
	c.JSON(http.StatusOK, list)
}

// Upload accepts up to MaxFiles images in the "file" multipart field, each
// capped at MaxFileSize bytes. Records start unapproved.
func (h Handlers) Upload(c *gin.Context) {
	actor, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondErr(c, ErrForbidden)
		return
	}

	placeID, err := strconv.Atoi(c.PostForm("placeID"))
	if err != nil {
		badRequest(c, "placeID must be an integer")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "invalid multipart form")
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		badRequest(c, "no files uploaded")
		return
	}
	if len(files) > h.MaxFiles {
		badRequest(c, "too many files")
		return
	}

	var created []Photo
	for _, fh := range files {
		if fh.Size > h.MaxFileSize {
			badRequest(c, "file too large")
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondErr(c, err)
			return
		}
		p, err := h.Photos.Upload(c.Request.Context(), actor.UserID, placeID,
			fh.Header.Get("Content-Type"), fh.Filename, f)
		f.Close()
		if err != nil {
			respondErr(c, err)
			return
		}
		created = append(created, p)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "file uploaded successfully",
		"images":  created,
	})
}

func (h Handlers) Remove(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	actor, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondErr(c, ErrForbidden)
		return
	}
	if err := h.Photos.Remove(c.Request.Context(), id, actor.UserID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h Handlers) Approve(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	p, err := h.Photos.Approve(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": p.ID, "approved": p.Approved})
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		badRequest(c, name+" must be an integer")
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, ErrUnapproved):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "waiting for approval"})
	case errors.Is(err, ErrInvalidFile):
		badRequest(c, "unsupported file type")
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
