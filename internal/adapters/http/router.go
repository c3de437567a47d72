// Package http wires the REST API, the realtime endpoint and static
// assets onto one gin engine.
package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kirtanupdate/server/internal/adapters/signal"
	"github.com/kirtanupdate/server/internal/auth"
	"github.com/kirtanupdate/server/internal/config"
	"github.com/kirtanupdate/server/internal/storage"
)

// API carries the repositories and auth helpers the handlers need.
type API struct {
	Users     *storage.UserRepo
	Samagams  *storage.SamagamRepo
	Recorded  *storage.RecordedRepo
	Locations *storage.LocationRepo
	Tokens    *storage.FcmTokenRepo
	Camp      *storage.CampRepo

	Auth      *auth.Manager
	Hasher    *auth.PasswordHasher
	UploadDir string
}

func SetupRouter(ctx context.Context, cfg *config.Config, api *API, ws *signal.Controller) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.Static("/static", cfg.StaticPath)
	r.Static("/uploads", cfg.UploadPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	authed := api.Auth.Authenticate()
	admin := auth.RequireAdmin()

	g := r.Group("/api")

	// Auth
	g.POST("/register", api.register)
	g.POST("/login", api.login)
	g.POST("/logout", api.logout)
	g.GET("/user", authed, api.currentUser)

	// Samagams
	g.GET("/samagams", api.listSamagams)
	g.GET("/samagams/:id", api.getSamagam)
	g.POST("/samagams", authed, admin, api.createSamagam)
	g.PATCH("/samagams/:id", authed, admin, api.updateSamagam)
	g.DELETE("/samagams/:id", authed, admin, api.deleteSamagam)
	g.GET("/calendar", api.calendar)

	// Recorded samagams
	g.GET("/recorded-samagams", api.listRecorded)
	g.POST("/recorded-samagams", authed, admin, api.createRecorded)
	g.PATCH("/recorded-samagams/:id", authed, admin, api.updateRecorded)
	g.DELETE("/recorded-samagams/:id", authed, admin, api.deleteRecorded)

	// Locations
	g.GET("/locations", api.listLocations)
	g.POST("/locations", authed, admin, api.createLocation)
	g.PATCH("/locations/:id", authed, admin, api.updateLocation)
	g.DELETE("/locations/:id", authed, admin, api.deleteLocation)

	// Push-notification tokens
	g.POST("/fcm-tokens", api.saveFcmToken)
	g.DELETE("/fcm-tokens/:token", api.deleteFcmToken)
	g.GET("/fcm-tokens/check/:token", api.checkFcmToken)

	// Gurmat camp registrations
	g.POST("/camp-registrations", api.registerCamp)
	g.GET("/camp-registrations", authed, admin, api.listCampRegistrations)

	// Realtime presence and broadcast channel
	g.GET("/ws", func(c *gin.Context) {
		ws.HandleWS(ctx, c)
	})

	return r
}
