package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kirtanupdate/server/internal/auth"
	"github.com/kirtanupdate/server/internal/domain"
	"github.com/kirtanupdate/server/internal/storage"
)

type recordedPayload struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	YoutubeURL  string    `json:"youtubeUrl" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
}

func (p *recordedPayload) entity() *domain.RecordedSamagam {
	return &domain.RecordedSamagam{
		Title:       p.Title,
		Description: p.Description,
		YoutubeURL:  p.YoutubeURL,
		Date:        p.Date,
	}
}

func (api *API) listRecorded(c *gin.Context) {
	page, limit, offset := pagination(c)
	recorded, total, err := api.Recorded.Paginated(limit, offset)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list recorded samagams")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recordedSamagams": recorded,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages(total, limit),
		},
	})
}

func (api *API) createRecorded(c *gin.Context) {
	var p recordedPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title, description, youtubeUrl and date are required"})
		return
	}

	rec := p.entity()
	rec.AddedBy = auth.ClaimsFrom(c).UserID
	if err := api.Recorded.Create(rec); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("create recorded samagam")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (api *API) updateRecorded(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var p recordedPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title, description, youtubeUrl and date are required"})
		return
	}

	rec, err := api.Recorded.Update(id, p.entity())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Recorded Samagam not found"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("update recorded samagam")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (api *API) deleteRecorded(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := api.Recorded.Delete(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Recorded Samagam not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.Status(http.StatusNoContent)
}
