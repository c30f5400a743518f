package users

import (
	"errors"
	"net/http"
	"strconv"

	"place-review-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the user domain over HTTP. Keep these thin: parse input,
// call the service, map sentinel errors to status codes.
type Handlers struct {
	Users *Service
}

type registerRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age"`
}

func (h Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	profile, err := h.Users.Register(c.Request.Context(), RegisterParams{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

type updateRequest struct {
	UserName *string `json:"userName"`
	Age      *int    `json:"age"`
}

func (h Handlers) Update(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	actor, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondErr(c, ErrForbidden)
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	profile, err := h.Users.Update(c.Request.Context(), id, actor.UserID, UpdateParams{
		UserName: req.UserName,
		Age:      req.Age,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
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
	if err := h.Users.Remove(c.Request.Context(), id, actor.UserID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h Handlers) Me(c *gin.Context) {
	actor, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondErr(c, ErrForbidden)
		return
	}
	profile, err := h.Users.Profile(c.Request.Context(), actor.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type interestRequest struct {
	Interest string `json:"interest"`
}

func (h Handlers) AddInterest(c *gin.Context) {
	actor, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondErr(c, ErrForbidden)
		return
	}
	var req interestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	if err := h.Users.AddInterest(c.Request.Context(), actor.UserID, req.Interest); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"interest": req.Interest})
}

func (h Handlers) Recommendations(c *gin.Context) {
	actor, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondErr(c, ErrForbidden)
		return
	}
	places, err := h.Users.Recommendations(c.Request.Context(), actor.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, places)
}

func (h Handlers) RecommendByAge(c *gin.Context) {
	actor, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondErr(c, ErrForbidden)
		return
	}
	places, err := h.Users.RecommendByAge(c.Request.Context(), actor.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, places)
}

func (h Handlers) SendFriendRequest(c *gin.Context) {
	target, ok := intParam(c, "id")
	if !ok {
		return
	}
	actor, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondErr(c, ErrForbidden)
		return
	}
	if err := h.Users.SendFriendRequest(c.Request.Context(), actor.UserID, target); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "friend request sent"})
}

type resolveFriendRequest struct {
	Accepted bool `json:"accepted"`
}

func (h Handlers) ResolveFriendRequest(c *gin.Context) {
	from, ok := intParam(c, "id")
	if !ok {
		return
	}
	actor, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondErr(c, ErrForbidden)
		return
	}
	var req resolveFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	if err := h.Users.ResolveFriendRequest(c.Request.Context(), actor.UserID, from, req.Accepted); err != nil {
		respondErr(c, err)
		return
	}
	if req.Accepted {
		c.JSON(http.StatusOK, gin.H{"message": "friend request accepted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend request rejected"})
}

func (h Handlers) Friends(c *gin.Context) {
	actor, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		respondErr(c, ErrForbidden)
		return
	}
	friends, err := h.Users.FriendList(c.Request.Context(), actor.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

func (h Handlers) Search(c *gin.Context) {
	matches, err := h.Users.SearchByUserName(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
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
