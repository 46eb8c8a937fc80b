package classes

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymclass/internal/domain"
	"gymclass/internal/pkg/response"
	"gymclass/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the public catalog endpoints; staff mutations are
// registered separately under the role-guarded group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/classes", h.ListClasses)
	rg.GET("/classes/:id", h.GetClass)
}

func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.POST("/classes", h.CreateClass)
	rg.PATCH("/classes/:id", h.UpdateClass)
	rg.POST("/classes/:id/cancel", h.CancelClass)
	rg.GET("/instructor/classes", h.MyClasses)
}

func (h *Handler) ListClasses(c *gin.Context) {
	var f repository.ClassFilters
	f.Type = c.Query("type")

	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, expected YYYY-MM-DD")
			return
		}
		f.From = day
		f.To = day.Add(24 * time.Hour)
	}

	f.Limit = 20
	if limit := c.Query("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 && v <= 100 {
			f.Limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			f.Offset = (v - 1) * f.Limit
		}
	}

	now := time.Now()
	list, total, err := h.service.ListAvailable(c.Request.Context(), f, now)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list classes")
		return
	}

	out := make([]ClassDetails, 0, len(list))
	for i := range list {
		out = append(out, Details(&list[i], now))
	}

	response.Success(c, http.StatusOK, gin.H{
		"classes": out,
		"pagination": gin.H{
			"total":  total,
			"limit":  f.Limit,
			"offset": f.Offset,
		},
	})
}

func (h *Handler) GetClass(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid class ID")
		return
	}

	class, err := h.service.GetClass(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": Details(class, time.Now())})
}

func (h *Handler) CreateClass(c *gin.Context) {
	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	class, err := h.service.CreateClass(
		c.Request.Context(), req,
		c.GetInt64("user_id"), domain.UserRole(c.GetString("role")),
	)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"class": Details(class, time.Now())})
}

func (h *Handler) UpdateClass(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid class ID")
		return
	}

	var req UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	class, err := h.service.UpdateClass(
		c.Request.Context(), id, req,
		c.GetInt64("user_id"), domain.UserRole(c.GetString("role")),
	)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": Details(class, time.Now())})
}

func (h *Handler) CancelClass(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid class ID")
		return
	}

	err = h.service.CancelClass(
		c.Request.Context(), id,
		c.GetInt64("user_id"), domain.UserRole(c.GetString("role")),
		time.Now(),
	)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cancelled": true})
}

func (h *Handler) MyClasses(c *gin.Context) {
	list, err := h.service.ListByInstructor(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list classes")
		return
	}

	now := time.Now()
	out := make([]ClassDetails, 0, len(list))
	for i := range list {
		out = append(out, Details(&list[i], now))
	}

	response.Success(c, http.StatusOK, gin.H{"classes": out})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid class data")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Class not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't manage this class")
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Class state does not allow this operation")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
