package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kirtanupdate/server/internal/storage"
)

func (api *API) saveFcmToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "FCM token is required"})
		return
	}

	rec, err := api.Tokens.Save(req.Token)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("save fcm token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (api *API) deleteFcmToken(c *gin.Context) {
	token := c.Param("token")
	if err := api.Tokens.Delete(token); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Token not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete FCM token"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *API) checkFcmToken(c *gin.Context) {
	exists, err := api.Tokens.Exists(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to check FCM token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
