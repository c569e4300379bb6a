package bookingRepo

import "fundis/models"

// BookingRepository defines persistence for bookings. Lookups return
// (nil, nil) when no document matches.
type BookingRepository interface {
	Create(booking *models.Booking) error
	Update(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	ListByClient(clientID string, limit int) ([]models.Booking, error)
	ListByProvider(providerID string, limit int) ([]models.Booking, error)
	List(opts ListOptions) ([]models.Booking, int64, error)
	Count() (int64, error)
	CountByStatuses(statuses ...string) (int64, error)
}

// ListOptions filters the admin booking listing.
type ListOptions struct {
	Status string
	Page   int
	Limit  int
}
