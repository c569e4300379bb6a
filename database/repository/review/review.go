package reviewRepo

import "fundis/models"

// ReviewRepository defines persistence for booking reviews. Lookups
// return (nil, nil) when no document matches.
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByBookingID(bookingID string) (*models.Review, error)
}
