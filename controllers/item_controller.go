// controllers/item_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"lending_register/app"
	"lending_register/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

// Admin adds a stock keeping unit; issued starts at zero.
func (ic *ItemController) CreateItem(c *gin.Context) {
	var in struct {
		Name     string `json:"name" binding:"required"`
		Total    int    `json:"total"`
		ImageURL string `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it := &models.Item{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(in.Name),
		Total:    in.Total,
		ImageURL: in.ImageURL,
	}
	if err := ic.Repo.CreateItem(c.Request.Context(), it); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (ic *ItemController) GetItem(c *gin.Context) {
	it, err := ic.Repo.FindItemByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, app.H{"error": "item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, it)
}

func (ic *ItemController) ListItems(c *gin.Context) {
	items, err := ic.Repo.ListItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// Super admin edits the raw counters; available is derived server-side.
func (ic *ItemController) UpdateItemCounts(c *gin.Context) {
	var in struct {
		Total  *int `json:"total" binding:"required"`
		Issued *int `json:"issued" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it, err := ic.Repo.UpdateItemCounts(c.Request.Context(), c.Param("id"), *in.Total, *in.Issued)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, app.H{"error": "item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, it)
}

func (ic *ItemController) DeleteItem(c *gin.Context) {
	err := ic.Repo.DeleteItem(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, app.H{"error": "item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
