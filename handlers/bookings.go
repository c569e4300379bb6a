package handlers

import (
	"errors"
	"net/http"

	bookingRepo "fundis/database/repository/booking"
	providerRepo "fundis/database/repository/provider"
	"fundis/models"
	"fundis/services/booking"

	"github.com/gin-gonic/gin"
)

const apiListLimit = 20

// BookingHandler exposes the dashboard booking endpoints.
type BookingHandler struct {
	Bookings  bookingRepo.BookingRepository
	Providers providerRepo.ProviderRepository
	Lifecycle booking.LifecycleService
}

// List returns the caller's bookings: as a client, or as a provider
// when they own a provider profile.
func (h *BookingHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if user.Role == models.RoleProvider {
		provider, err := h.Providers.GetByUserID(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load provider profile"})
			return
		}
		if provider != nil {
			bookings, err := h.Bookings.ListByProvider(provider.ID, apiListLimit)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"bookings": bookings})
			return
		}
	}

	bookings, err := h.Bookings.ListByClient(user.ID, apiListLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// Get returns one booking the caller has access to.
func (h *BookingHandler) Get(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	bk, err := h.Bookings.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load booking"})
		return
	}
	if bk == nil || !h.canAccess(user, bk) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	c.JSON(http.StatusOK, bk)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// UpdateStatus moves a booking along its lifecycle on behalf of the
// authenticated caller.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	bk, err := h.Lifecycle.UpdateStatus(c.Request.Context(), c.Param("id"), user.ID, req.Status, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bk)
}

func (h *BookingHandler) canAccess(user *models.User, bk *models.Booking) bool {
	if user.Role == models.RoleAdmin || bk.ClientID == user.ID {
		return true
	}
	provider, err := h.Providers.GetByID(bk.ProviderID)
	return err == nil && provider != nil && provider.UserID == user.ID
}

// currentUser returns the user stored by AuthMiddleware.
func currentUser(c *gin.Context) *models.User {
	val, ok := c.Get("user")
	if !ok {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// respondServiceError maps lifecycle error codes to HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var se *booking.ServiceError
	if !errors.As(err, &se) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	switch se.Code {
	case booking.CodeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": se.Message})
	case booking.CodeUnauthorized:
		c.JSON(http.StatusForbidden, gin.H{"error": se.Message})
	case booking.CodeConflict:
		c.JSON(http.StatusConflict, gin.H{"error": se.Message})
	case booking.CodeGatewayRejected:
		c.JSON(http.StatusBadGateway, gin.H{"error": se.Message})
	case booking.CodeTransientIO:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": se.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
