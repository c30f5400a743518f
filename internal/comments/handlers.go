package comments

import (
	"errors"
	"net/http"
	"strconv"

	"place-review-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Comments *Service
}

func (h Handlers) FindAll(c *gin.Context) {
	list, err := h.Comments.FindAll(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	if list == nil {
		list = []Comment{}
	}
	c.JSON(http.StatusOK, list)
}

func (h Handlers) FindOne(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	comment, err := h.Comments.FindOne(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h Handlers) FindAllByUser(c *gin.Context) {
	userID, ok := intParam(c, "userID")
	if !ok {
		return
	}
	list, err := h.Comments.FindAllByUser(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h Handlers) FindAllByPlace(c *gin.Context) {
	placeID, ok := intParam(c, "placeID")
	if !ok {
		return
	}
	list, err := h.Comments.FindAllByPlace(c.Request.Context(), placeID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h Handlers) FindAllByGooglePlace(c *gin.Context) {
	list, err := h.Comments.FindAllByGooglePlace(c.Request.Context(), c.Param("googleplaceID"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type commentRequest struct {
	Text    string `json:"text"`
	Rating  int    `json:"rating"`
	PlaceID int    `json:"placeID"`
}

func (h Handlers) Add(c *gin.Context) {
	actor, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondErr(c, ErrForbidden)
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	comment, err := h.Comments.Add(c.Request.Context(), actor.UserID, CreateParams{
		Text:    req.Text,
		Rating:  req.Rating,
		PlaceID: req.PlaceID,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h Handlers) Update(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	comment, err := h.Comments.Update(c.Request.Context(), id, req.Text, req.Rating)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
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
	if err := h.Comments.Remove(c.Request.Context(), id, actor.UserID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
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
	case errors.Is(err, ErrInvalid):
		badRequest(c, "invalid input")
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
