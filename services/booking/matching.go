package booking

import (
	"context"
	"fmt"
	"sort"

	providerRepo "fundis/database/repository/provider"
	"fundis/models"
)

// MaxCandidates caps the provider shortlist considered per request.
const MaxCandidates = 3

// MatchingService selects a provider for a requested service type.
// Returns (nil, nil) when no verified provider offers the service.
type MatchingService interface {
	MatchProvider(ctx context.Context, serviceType string) (*models.ServiceProvider, error)
}

// DefaultMatchingService implements MatchingService over the provider
// repository: verified providers only, ranked by rating, deterministic
// tie-break on completed jobs then provider ID.
type DefaultMatchingService struct {
	ProviderRepo providerRepo.ProviderRepository
}

func (s *DefaultMatchingService) MatchProvider(ctx context.Context, serviceType string) (*models.ServiceProvider, error) {
	candidates, err := s.ProviderRepo.FindVerifiedByService(serviceType, MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("failed to search providers for %q: %w", serviceType, err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.CompletedJobs != b.CompletedJobs {
			return a.CompletedJobs > b.CompletedJobs
		}
		return a.ID < b.ID
	})

	top := candidates[0]
	return &top, nil
}
