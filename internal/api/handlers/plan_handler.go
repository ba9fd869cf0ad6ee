package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/replenish-go/internal/dataset"
	"github.com/andresuchdata/replenish-go/internal/planner"
	"github.com/andresuchdata/replenish-go/internal/service"
	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps a single uploaded dataset.
const maxUploadBytes = 64 << 20

type PlanHandler struct {
	service *service.PlanService
}

func NewPlanHandler(service *service.PlanService) *PlanHandler {
	return &PlanHandler{service: service}
}

// ComputePlan handles POST /plan: multipart upload of sales and inventory
// datasets (plus an optional product master), returning the formatted plan
// table, chart datasets, and join warnings.
func (h *PlanHandler) ComputePlan(c *gin.Context) {
	sales, err := readFormFile(c, "sales")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sales dataset is required", "details": err.Error()})
		return
	}

	inventory, err := readFormFile(c, "inventory")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "inventory dataset is required", "details": err.Error()})
		return
	}

	input := service.ComputeInput{
		Sales:     *sales,
		Inventory: *inventory,
	}

	if master, err := readFormFile(c, "product_master"); err == nil {
		input.ProductMaster = master
	}

	if raw := strings.TrimSpace(c.DefaultPostForm("window_days", c.Query("window_days"))); raw != "" {
		windowDays, err := strconv.Atoi(raw)
		if err != nil || windowDays <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window_days must be a positive integer"})
			return
		}
		input.WindowDays = windowDays
	}

	rep, err := h.service.Compute(c.Request.Context(), input)
	if err != nil {
		var schemaErr *dataset.SchemaError
		var compErr *planner.ComputationError
		switch {
		case errors.As(err, &schemaErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dataset schema", "details": schemaErr.Error()})
		case errors.As(err, &compErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid inventory data", "details": compErr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute plan", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, rep)
}

// GetDefaults returns the configured computation defaults.
func (h *PlanHandler) GetDefaults(c *gin.Context) {
	cfg := h.service.Defaults()
	c.JSON(http.StatusOK, gin.H{
		"window_days": cfg.WindowDays,
		"open_status": cfg.OpenStatus,
	})
}

func readFormFile(c *gin.Context, field string) (*service.DatasetFile, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	return readMultipartFile(fh)
}

func readMultipartFile(fh *multipart.FileHeader) (*service.DatasetFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return nil, err
	}

	return &service.DatasetFile{Name: fh.Filename, Data: data}, nil
}
