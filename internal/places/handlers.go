package places

import (
	"errors"
	"net/http"
	"strconv"

	"place-review-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Places *Service
}

func (h Handlers) GetOne(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	p, err := h.Places.GetOne(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h Handlers) GetByGooglePlaceID(c *gin.Context) {
	p, err := h.Places.GetByGooglePlaceID(c.Request.Context(), c.Param("googleplaceID"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h Handlers) All(c *gin.Context) {
	places, err := h.Places.All(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, places)
}

type createPlaceRequest struct {
	GooglePlaceID string `json:"googleplaceID"`
	Name          string `json:"name"`
	Address       string `json:"address"`
}

func (h Handlers) Add(c *gin.Context) {
	var req createPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	p, err := h.Places.Add(c.Request.Context(), CreateParams{
		GooglePlaceID: req.GooglePlaceID,
		Name:          req.Name,
		Address:       req.Address,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h Handlers) Remove(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.Places.Remove(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

type categoryRequest struct {
	Category string `json:"category"`
}

func (h Handlers) AddCategory(c *gin.Context) {
	placeID, ok := intParam(c, "placeID")
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	cat, err := h.Places.AddCategory(c.Request.Context(), placeID, req.Category)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

type newsRequest struct {
	Text string `json:"text"`
}

func (h Handlers) AddNews(c *gin.Context) {
	placeID, ok := intParam(c, "placeID")
	if !ok {
		return
	}
	actor, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondErr(c, ErrForbidden)
		return
	}
	var req newsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	n, err := h.Places.AddNews(c.Request.Context(), placeID, actor.UserID, req.Text)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h Handlers) UpdateNews(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	actor, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondErr(c, ErrForbidden)
		return
	}
	var req newsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	n, err := h.Places.UpdateNews(c.Request.Context(), id, actor.UserID, req.Text)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h Handlers) ApproveNews(c *gin.Context) {
	id, ok := intParam(c, "newsId")
	if !ok {
		return
	}
	n, err := h.Places.ApproveNews(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": n.ID, "approved": n.Approved})
}

func (h Handlers) AllNews(c *gin.Context) {
	news, err := h.Places.AllNews(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, news)
}

func (h Handlers) NewsByPlace(c *gin.Context) {
	placeID, ok := intParam(c, "id")
	if !ok {
		return
	}
	news, err := h.Places.NewsByPlace(c.Request.Context(), placeID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, news)
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
	case errors.Is(err, ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "conflict"})
	case errors.Is(err, ErrInvalid):
		badRequest(c, "invalid input")
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
