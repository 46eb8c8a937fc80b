package waitlist

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymclass/internal/domain"
	"gymclass/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/waitlist", h.Join)
	rg.GET("/waitlist", h.MyEntries)
	rg.POST("/waitlist/:id/cancel", h.Leave)
}

func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.GET("/classes/:id/waitlist", h.ClassQueue)
}

func (h *Handler) Join(c *gin.Context) {
	var req JoinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	entry, err := h.service.Join(c.Request.Context(), c.GetInt64("user_id"), req.ClassID, time.Now())
	if err != nil {
		handleWaitlistError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"entry": entry})
}

func (h *Handler) MyEntries(c *gin.Context) {
	list, err := h.service.ListMemberEntries(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list waitlist entries")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entries": list})
}

func (h *Handler) Leave(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid waitlist entry ID")
		return
	}

	role := domain.UserRole(c.GetString("role"))
	privileged := role == domain.RoleAdmin || role == domain.RoleInstructor

	entry, err := h.service.Leave(c.Request.Context(), id, c.GetInt64("user_id"), privileged, time.Now())
	if err != nil {
		handleWaitlistError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entry": entry})
}

func (h *Handler) ClassQueue(c *gin.Context) {
	classID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid class ID")
		return
	}

	list, err := h.service.ListClassQueue(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list waitlist")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entries": list})
}

func handleWaitlistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMemberBlocked):
		response.Error(c, http.StatusForbidden, "MEMBER_BLOCKED", "Your account is temporarily blocked from booking")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Waitlist entry not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "This waitlist entry is not yours to manage")
	case errors.Is(err, ErrClassNotOpen):
		response.Error(c, http.StatusConflict, "CLASS_NOT_OPEN", "Class is not open for waitlisting")
	case errors.Is(err, ErrClassNotFull):
		response.Error(c, http.StatusConflict, "CLASS_NOT_FULL", "Class still has free seats, book directly")
	case errors.Is(err, ErrWaitlistNotAllowed):
		response.Error(c, http.StatusConflict, "WAITLIST_DISABLED", "This class does not allow a waitlist")
	case errors.Is(err, ErrAlreadyWaiting):
		response.Error(c, http.StatusConflict, "ALREADY_WAITING", "You are already on this waitlist")
	case errors.Is(err, ErrAlreadyBooked):
		response.Error(c, http.StatusConflict, "ALREADY_BOOKED", "You already have a reservation for this class")
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Waitlist entry state does not allow this operation")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
