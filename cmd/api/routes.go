package main

import (
	"log/slog"
	"net/http"

	"place-review-platform/internal/audit"
	"place-review-platform/internal/auth"
	"place-review-platform/internal/comments"
	"place-review-platform/internal/config"
	"place-review-platform/internal/photos"
	"place-review-platform/internal/places"
	"place-review-platform/internal/rbac"
	"place-review-platform/internal/throttle"
	"place-review-platform/internal/users"

	"github.com/gin-gonic/gin"
)

type routeDeps struct {
	cfg      config.Config
	log      *slog.Logger
	engine   *throttle.Engine
	tokens   *auth.Manager
	cookies  *auth.CookieCodec
	accounts auth.UserStore

	authH     auth.Handlers
	usersH    users.Handlers
	placesH   places.Handlers
	commentsH comments.Handlers
	photosH   photos.Handlers
	audits    *audit.Service
}

// registerRoutes declares every route with its full guard chain, in order:
// throttle, then authentication, then role, then audit, then the handler.
func registerRoutes(r *gin.Engine, d routeDeps) {
	// Per-bucket throttle middlewares. Creation and upload carry their
	// generic write membership plus an exemption, leaving only the
	// tighter bucket in effect.
	basic := d.engine.Limit(throttle.Route{Buckets: []string{throttle.BucketBasic}})
	postput := d.engine.Limit(throttle.Route{Buckets: []string{throttle.BucketPostPut}})
	login := d.engine.Limit(throttle.Route{Buckets: []string{throttle.BucketLogin}})
	placeCreate := d.engine.Limit(throttle.Route{
		Buckets: []string{throttle.BucketPostPut, throttle.BucketPlace},
		Exempt:  []string{throttle.BucketPostPut},
	})
	upload := d.engine.Limit(throttle.Route{
		Buckets: []string{throttle.BucketPostPut, throttle.BucketUpload},
		Exempt:  []string{throttle.BucketPostPut},
	})

	requireUser := auth.RequireUser(d.tokens, d.cookies, d.accounts)
	requireAdmin := rbac.RequireRole(rbac.RoleAdmin)

	audited := func(action string) gin.HandlerFunc {
		return audit.AdminAction(d.audits, d.log, action)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Uploaded photo files.
	r.Static("/uploads", d.cfg.Upload.Dir)

	ag := r.Group("/auth")
	{
		ag.POST("/login", login, d.authH.Login)
		ag.GET("/profile", basic, requireUser, d.authH.Profile)
		ag.GET("/me", basic, requireUser, d.usersH.Me)
		ag.POST("/logout", basic, requireUser, d.authH.Logout)
	}

	ug := r.Group("/user")
	{
		ug.POST("", postput, d.usersH.Register)
		ug.PUT("/:id", postput, requireUser, d.usersH.Update)
		ug.DELETE("/:id", basic, requireUser, d.usersH.Remove)
		ug.GET("/recommendation", basic, requireUser, d.usersH.Recommendations)
		ug.GET("/recommendation/age", basic, requireUser, d.usersH.RecommendByAge)
		ug.POST("/interest", postput, requireUser, d.usersH.AddInterest)
		ug.GET("/friends", basic, requireUser, d.usersH.Friends)
		ug.POST("/friend/:id", postput, requireUser, d.usersH.SendFriendRequest)
		ug.PUT("/friend/:id", postput, requireUser, d.usersH.ResolveFriendRequest)
		ug.GET("/search/:username", basic, d.usersH.Search)
	}

	pg := r.Group("/place")
	{
		pg.GET("/all", basic, requireUser, requireAdmin, d.placesH.All)
		pg.GET("/allNews", basic, requireUser, requireAdmin, d.placesH.AllNews)
		pg.GET("/getByGooglePlaceId/:googleplaceID", basic, d.placesH.GetByGooglePlaceID)
		pg.GET("/:id", basic, d.placesH.GetOne)
		pg.GET("/:id/news", basic, d.placesH.NewsByPlace)

		pg.POST("", placeCreate, requireUser, d.placesH.Add)
		pg.POST("/:placeID/category", postput, d.placesH.AddCategory)
		pg.POST("/:placeID/news", postput, requireUser, d.placesH.AddNews)

		pg.PUT("/news/:id", postput, requireUser, d.placesH.UpdateNews)
		pg.PUT("/:newsId/approve", postput, requireUser, requireAdmin, audited("news.approve"), d.placesH.ApproveNews)

		pg.DELETE("/:id", postput, requireUser, requireAdmin, audited("place.delete"), d.placesH.Remove)
	}

	cg := r.Group("/comment")
	{
		cg.GET("", basic, d.commentsH.FindAll)
		cg.GET("/findAllByUser/:userID", basic, d.commentsH.FindAllByUser)
		cg.GET("/findAllByPlace/:placeID", basic, d.commentsH.FindAllByPlace)
		cg.GET("/findAllByGooglePlace/:googleplaceID", basic, d.commentsH.FindAllByGooglePlace)
		cg.GET("/:id", basic, d.commentsH.FindOne)

		cg.POST("", postput, requireUser, d.commentsH.Add)
		cg.PUT("/:id", postput, requireUser, d.commentsH.Update)
		cg.DELETE("/:id", basic, requireUser, d.commentsH.Remove)
	}

	phg := r.Group("/photo")
	{
		phg.GET("", basic, d.photosH.GetAll)
		phg.GET("/getAllByUser/:userID", basic, d.photosH.GetAllByUser)
		phg.GET("/getAllByPlace/:placeID", basic, d.photosH.GetAllByPlace)
		phg.GET("/:id", basic, d.photosH.GetOne)

		phg.POST("", upload, requireUser, d.photosH.Upload)
		phg.PUT("/:id/approve", postput, requireUser, requireAdmin, audited("photo.approve"), d.photosH.Approve)
		phg.DELETE("/:id", basic, requireUser, d.photosH.Remove)
	}
}
