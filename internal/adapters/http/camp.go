package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kirtanupdate/server/internal/domain"
	"github.com/kirtanupdate/server/internal/storage"
)

type campPayload struct {
	Name          string `json:"name" binding:"required"`
	Age           string `json:"age" binding:"required"`
	Gender        string `json:"gender" binding:"required"`
	Address       string `json:"address" binding:"required"`
	FatherName    string `json:"fatherName" binding:"required"`
	MotherName    string `json:"motherName" binding:"required"`
	ContactNumber string `json:"contactNumber" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
}

func (api *API) registerCamp(c *gin.Context) {
	var p campPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "all registration fields are required"})
		return
	}

	reg := &domain.CampRegistration{
		Name:          p.Name,
		Age:           p.Age,
		Gender:        p.Gender,
		Address:       p.Address,
		FatherName:    p.FatherName,
		MotherName:    p.MotherName,
		ContactNumber: p.ContactNumber,
		Email:         p.Email,
	}
	if err := api.Camp.Create(reg); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"message": "Registration failed: email already exists"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("create camp registration")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusCreated, reg)
}

func (api *API) listCampRegistrations(c *gin.Context) {
	regs, err := api.Camp.All()
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list camp registrations")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, regs)
}
