package handlers

import (
	"net/http"
	"strconv"

	bookingRepo "fundis/database/repository/booking"
	paymentRepo "fundis/database/repository/payment"
	providerRepo "fundis/database/repository/provider"
	userRepo "fundis/database/repository/user"
	"fundis/models"
	"fundis/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the operations dashboard.
type AdminHandler struct {
	Users     userRepo.UserRepository
	Providers providerRepo.ProviderRepository
	Bookings  bookingRepo.BookingRepository
	Payments  paymentRepo.PaymentRepository
}

// Dashboard returns platform-wide aggregate stats.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats := models.DashboardStats{}
	var err error

	if stats.TotalUsers, err = h.Users.Count(); err != nil {
		h.fail(c, "count users", err)
		return
	}
	if stats.TotalProviders, err = h.Providers.Count(); err != nil {
		h.fail(c, "count providers", err)
		return
	}
	if stats.TotalBookings, err = h.Bookings.Count(); err != nil {
		h.fail(c, "count bookings", err)
		return
	}
	if stats.ActiveBookings, err = h.Bookings.CountByStatuses(models.BookingPending, models.BookingConfirmed, models.BookingInProgress); err != nil {
		h.fail(c, "count active bookings", err)
		return
	}
	if stats.CompletedBookings, err = h.Bookings.CountByStatuses(models.BookingCompleted); err != nil {
		h.fail(c, "count completed bookings", err)
		return
	}
	if stats.TotalRevenue, err = h.Payments.SumPlatformFees(); err != nil {
		h.fail(c, "sum platform fees", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListUsers returns a paginated, filterable user listing.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)
	users, total, err := h.Users.List(userRepo.ListOptions{
		Role:   c.Query("role"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		h.fail(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": paginate(total, page, limit),
	})
}

// ListProviders returns a paginated provider listing.
func (h *AdminHandler) ListProviders(c *gin.Context) {
	page, limit := pageParams(c)
	providers, total, err := h.Providers.List(page, limit)
	if err != nil {
		h.fail(c, "list providers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"providers":  providers,
		"pagination": paginate(total, page, limit),
	})
}

// ListBookings returns a paginated, status-filterable booking listing.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := pageParams(c)
	bookings, total, err := h.Bookings.List(bookingRepo.ListOptions{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		h.fail(c, "list bookings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookings":   bookings,
		"pagination": paginate(total, page, limit),
	})
}

type verifyProviderRequest struct {
	Verified bool `json:"verified"`
}

// VerifyProvider toggles a provider's verified flag. Only verified
// providers are eligible for matching.
func (h *AdminHandler) VerifyProvider(c *gin.Context) {
	var req verifyProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "verified flag is required"})
		return
	}
	id := c.Param("id")
	provider, err := h.Providers.GetByID(id)
	if err != nil {
		h.fail(c, "load provider", err)
		return
	}
	if provider == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
		return
	}
	if err := h.Providers.SetVerified(id, req.Verified); err != nil {
		h.fail(c, "verify provider", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "verified": req.Verified})
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// SetUserActive activates or deactivates a user account. Deactivated
// users are refused service on every channel.
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "active flag is required"})
		return
	}
	id := c.Param("id")
	user, err := h.Users.GetByID(id)
	if err != nil {
		h.fail(c, "load user", err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err := h.Users.SetActive(id, req.Active); err != nil {
		h.fail(c, "update user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "active": req.Active})
}

func (h *AdminHandler) fail(c *gin.Context, op string, err error) {
	utils.GetLogger().Error("Admin endpoint failed", zap.String("op", op), zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "Internal server error", "failed to "+op)
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func paginate(total int64, page, limit int) models.Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return models.Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}
