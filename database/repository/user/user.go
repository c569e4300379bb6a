package userRepo

import "fundis/models"

// UserRepository defines persistence for platform users. Lookups
// return (nil, nil) when no document matches.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByWhatsAppID(waID string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	SetActive(id string, active bool) error
	List(opts ListOptions) ([]models.User, int64, error)
	Count() (int64, error)
}

// ListOptions filters the admin user listing.
type ListOptions struct {
	Role   string
	Search string
	Page   int
	Limit  int
}
