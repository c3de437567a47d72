package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kirtanupdate/server/internal/domain"
	"github.com/kirtanupdate/server/internal/storage"
)

const defaultPageSize = 12

type samagamPayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	TimeFrom    string    `json:"timeFrom"`
	TimeTo      string    `json:"timeTo"`
	Location    string    `json:"location"`
	Organizer   string    `json:"organizer"`
	ContactInfo string    `json:"contactInfo"`
	ImageURL    string    `json:"imageUrl"`
	Color       string    `json:"color"`
}

func (p *samagamPayload) validate() error {
	switch {
	case p.Title == "":
		return errors.New("Title cannot be empty")
	case p.Description == "":
		return errors.New("Description cannot be empty")
	case p.Date.IsZero():
		return errors.New("Date is required")
	case p.TimeFrom == "" || p.TimeTo == "":
		return errors.New("Time range is required")
	case p.Location == "":
		return errors.New("Location cannot be empty")
	case p.Organizer == "":
		return errors.New("Organizer cannot be empty")
	case p.ContactInfo == "":
		return errors.New("Contact info cannot be empty")
	}
	return nil
}

func (p *samagamPayload) entity() *domain.Samagam {
	return &domain.Samagam{
		Title:       p.Title,
		Description: p.Description,
		Date:        p.Date,
		TimeFrom:    p.TimeFrom,
		TimeTo:      p.TimeTo,
		Location:    p.Location,
		Organizer:   p.Organizer,
		ContactInfo: p.ContactInfo,
		ImageURL:    p.ImageURL,
		Color:       p.Color,
	}
}

// bindSamagam accepts either plain JSON or multipart form data carrying a
// "data" JSON field plus an optional image part, the shape the admin form
// submits.
func bindSamagam(c *gin.Context) (*samagamPayload, error) {
	var p samagamPayload
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		raw := c.PostForm("data")
		if raw == "" {
			return nil, errors.New("missing form field: data")
		}
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("invalid samagam payload: %w", err)
		}
	} else if err := c.ShouldBindJSON(&p); err != nil {
		return nil, fmt.Errorf("invalid samagam payload: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// saveImage stores an uploaded image under the upload dir and returns its
// public URL path.
func (api *API) saveImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	name := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(api.UploadDir, name)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return "/uploads/" + name, nil
}

func pagination(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	return page, limit, (page - 1) * limit
}

func totalPages(total int64, limit int) int64 {
	return (total + int64(limit) - 1) / int64(limit)
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

func (api *API) listSamagams(c *gin.Context) {
	page, limit, offset := pagination(c)
	samagams, total, err := api.Samagams.Paginated(limit, offset)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list samagams")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"samagams": samagams,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages(total, limit),
		},
	})
}

func (api *API) getSamagam(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	samagam, err := api.Samagams.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Samagam not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, samagam)
}

func (api *API) createSamagam(c *gin.Context) {
	p, err := bindSamagam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if file, err := c.FormFile("image"); err == nil {
		url, err := api.saveImage(c, file)
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("image upload")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error uploading image"})
			return
		}
		p.ImageURL = url
	}

	samagam := p.entity()
	if err := api.Samagams.Create(samagam); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("create samagam")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusCreated, samagam)
}

func (api *API) updateSamagam(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := bindSamagam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if file, err := c.FormFile("image"); err == nil {
		url, err := api.saveImage(c, file)
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("image upload")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error uploading image"})
			return
		}
		p.ImageURL = url
	}

	samagam, err := api.Samagams.Update(id, p.entity())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Samagam not found"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("update samagam")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, samagam)
}

func (api *API) deleteSamagam(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := api.Samagams.Delete(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Samagam not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *API) calendar(c *gin.Context) {
	entries, err := api.Samagams.Calendar(time.Now())
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("calendar samagams")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
