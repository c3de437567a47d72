package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kirtanupdate/server/internal/auth"
	"github.com/kirtanupdate/server/internal/domain"
	"github.com/kirtanupdate/server/internal/storage"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (api *API) setTokenCookie(c *gin.Context, token string) {
	c.SetCookie(auth.CookieName, token, int(api.Auth.TTL().Seconds()), "/", "", false, true)
}

func (api *API) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username, password and name are required"})
		return
	}

	hashed, err := api.Hasher.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during registration"})
		return
	}

	user, err := domain.NewUser(req.Username, hashed, req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := api.Users.Create(user); err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("create user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during registration"})
		return
	}

	token, err := api.Auth.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during registration"})
		return
	}
	api.setTokenCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (api *API) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	user, err := api.Users.GetByUsername(req.Username)
	if err != nil || !api.Hasher.Verify(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}

	token, err := api.Auth.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during login"})
		return
	}
	api.setTokenCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (api *API) logout(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (api *API) currentUser(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	c.JSON(http.StatusOK, gin.H{"user": claims.Identity()})
}
