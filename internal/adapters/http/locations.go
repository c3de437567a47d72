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

type locationPayload struct {
	Name        string             `json:"name" binding:"required"`
	Address     string             `json:"address" binding:"required"`
	Coordinates domain.Coordinates `json:"coordinates" binding:"required"`
	Description string             `json:"description"`
}

func (p *locationPayload) entity() *domain.Location {
	return &domain.Location{
		Name:        p.Name,
		Address:     p.Address,
		Coordinates: p.Coordinates,
		Description: p.Description,
	}
}

func (api *API) listLocations(c *gin.Context) {
	locations, err := api.Locations.All()
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list locations")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (api *API) createLocation(c *gin.Context) {
	var p locationPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name, address and coordinates are required"})
		return
	}

	loc := p.entity()
	loc.AddedBy = auth.ClaimsFrom(c).UserID
	if err := api.Locations.Create(loc); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("create location")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusCreated, loc)
}

func (api *API) updateLocation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var p locationPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name, address and coordinates are required"})
		return
	}

	loc, err := api.Locations.Update(id, p.entity())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Location not found"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("update location")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (api *API) deleteLocation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := api.Locations.Delete(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Location not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.Status(http.StatusNoContent)
}
