package booking

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

// RegisterRoutes wires the member-facing reservation endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reservations", h.CreateBooking)
	rg.GET("/reservations", h.MyReservations)
	rg.GET("/reservations/:id", h.GetReservation)
	rg.POST("/reservations/:id/cancel", h.CancelReservation)
}

// RegisterStaffRoutes wires attendance management for instructors and
// admins.
func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.GET("/classes/:id/reservations", h.ClassReservations)
	rg.POST("/reservations/:id/no-show", h.MarkNoShow)
	rg.POST("/reservations/:id/complete", h.MarkCompleted)
	rg.POST("/classes/:id/no-shows", h.MarkNoShowBulk)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.CreateBooking(
		c.Request.Context(),
		c.GetInt64("user_id"), req.ClassID, req.Notes,
		time.Now(),
	)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"reservation": res})
}

func (h *Handler) MyReservations(c *gin.Context) {
	limit := 20
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 1 {
		offset = (v - 1) * limit
	}

	list, err := h.service.ListMemberReservations(
		c.Request.Context(), c.GetInt64("user_id"), limit, offset, time.Now(),
	)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list reservations")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservations": list})
}

func (h *Handler) GetReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation ID")
		return
	}

	res, err := h.service.GetReservation(c.Request.Context(), id)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	role := domain.UserRole(c.GetString("role"))
	if role == domain.RoleMember && res.MemberID != c.GetInt64("user_id") {
		handleBookingError(c, ErrForbidden)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) CancelReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation ID")
		return
	}

	role := domain.UserRole(c.GetString("role"))
	privileged := role == domain.RoleAdmin || role == domain.RoleInstructor

	res, err := h.service.CancelReservation(
		c.Request.Context(), id, c.GetInt64("user_id"), privileged, time.Now(),
	)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) ClassReservations(c *gin.Context) {
	classID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid class ID")
		return
	}

	list, err := h.service.ListClassReservations(
		c.Request.Context(), classID,
		c.GetInt64("user_id"), domain.UserRole(c.GetString("role")),
	)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservations": list})
}

func (h *Handler) MarkNoShow(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation ID")
		return
	}

	err = h.service.MarkNoShow(
		c.Request.Context(), id,
		c.GetInt64("user_id"), domain.UserRole(c.GetString("role")),
		time.Now(),
	)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"marked": true})
}

func (h *Handler) MarkCompleted(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation ID")
		return
	}

	err = h.service.MarkCompleted(
		c.Request.Context(), id,
		c.GetInt64("user_id"), domain.UserRole(c.GetString("role")),
		time.Now(),
	)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"completed": true})
}

func (h *Handler) MarkNoShowBulk(c *gin.Context) {
	classID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid class ID")
		return
	}

	var req NoShowBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if !req.All && len(req.ReservationIDs) == 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Provide reservation_ids or set all")
		return
	}

	marked, err := h.service.MarkNoShowBulk(
		c.Request.Context(), classID, req.ReservationIDs, req.All,
		c.GetInt64("user_id"), domain.UserRole(c.GetString("role")),
		time.Now(),
	)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"marked": marked})
}

func handleBookingError(c *gin.Context, err error) {
	var late *LateCancellationError
	if errors.As(err, &late) {
		response.ErrorWithDetails(c, http.StatusConflict, "LATE_CANCELLATION",
			"Too late to cancel this reservation",
			gin.H{"remaining_minutes": late.RemainingMinutes()})
		return
	}

	switch {
	case errors.Is(err, ErrMemberBlocked):
		response.Error(c, http.StatusForbidden, "MEMBER_BLOCKED", "Your account is temporarily blocked from booking")
	case errors.Is(err, ErrClassUnavailable):
		response.Error(c, http.StatusConflict, "CLASS_UNAVAILABLE", "Class is full or not accepting bookings; try the waitlist")
	case errors.Is(err, ErrDuplicateBooking):
		response.Error(c, http.StatusConflict, "DUPLICATE_BOOKING", "You already have a reservation for this class")
	case errors.Is(err, ErrLateCancellation):
		response.Error(c, http.StatusConflict, "LATE_CANCELLATION", "Too late to cancel this reservation")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "This reservation is not yours to manage")
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Reservation state does not allow this operation")
	case errors.Is(err, ErrClassNotEnded):
		response.Error(c, http.StatusConflict, "CLASS_NOT_ENDED", "Attendance can be recorded only after the class ends")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
