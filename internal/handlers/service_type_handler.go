package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitagenda/trainer-scheduler/internal/middleware"
	"github.com/fitagenda/trainer-scheduler/internal/models"
)

type ServiceTypeHandler struct {
	db *gorm.DB
}

func NewServiceTypeHandler(db *gorm.DB) *ServiceTypeHandler {
	return &ServiceTypeHandler{db: db}
}

// --------- Requests ---------

type CreateServiceTypeRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
}

type UpdateServiceTypeRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------
func (h *ServiceTypeHandler) List(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	activeStr := strings.TrimSpace(c.Query("active")) // "true", "false" ou vazio
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("trainer_id = ?", trainerID)

	if activeStr != "" {
		if activeStr == "true" {
			q = q.Where("active = ?", true)
		} else if activeStr == "false" {
			q = q.Where("active = ?", false)
		}
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var serviceTypes []models.ServiceType
	if err := q.
		Order("id ASC").
		Find(&serviceTypes).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_service_types"})
		return
	}

	c.JSON(http.StatusOK, serviceTypes)
}

func (h *ServiceTypeHandler) Create(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	var req CreateServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	serviceType := models.ServiceType{
		TrainerID:   trainerID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Active:      true,
	}

	if err := h.db.Create(&serviceType).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_service_type"})
		return
	}

	c.JSON(http.StatusCreated, serviceType)
}

func (h *ServiceTypeHandler) Update(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	id := c.Param("id")

	var serviceType models.ServiceType
	if err := h.db.
		Where("id = ? AND trainer_id = ?", id, trainerID).
		First(&serviceType).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "service_type_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_service_type"})
		return
	}

	var req UpdateServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		serviceType.Name = *req.Name
	}
	if req.Description != nil {
		serviceType.Description = *req.Description
	}
	if req.Price != nil {
		serviceType.Price = *req.Price
	}
	if req.Active != nil {
		serviceType.Active = *req.Active
	}

	if err := h.db.Save(&serviceType).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_service_type"})
		return
	}

	c.JSON(http.StatusOK, serviceType)
}
