package booking

import (
	"context"
	"testing"

	"fundis/models"
)

func TestMatchProviderPicksHighestRated(t *testing.T) {
	repo := newMemProviderRepo()
	repo.Create(&models.ServiceProvider{ID: "p-low", Services: []string{"Plumbing"}, Verified: true, Rating: 3.5})
	repo.Create(&models.ServiceProvider{ID: "p-high", Services: []string{"Plumbing"}, Verified: true, Rating: 4.8})
	repo.Create(&models.ServiceProvider{ID: "p-unverified", Services: []string{"Plumbing"}, Verified: false, Rating: 5.0})

	svc := &DefaultMatchingService{ProviderRepo: repo}
	got, err := svc.MatchProvider(context.Background(), "Plumbing")
	if err != nil {
		t.Fatalf("MatchProvider failed: %v", err)
	}
	if got == nil || got.ID != "p-high" {
		t.Fatalf("matched %+v, want p-high", got)
	}
}

func TestMatchProviderTieBreak(t *testing.T) {
	repo := newMemProviderRepo()
	repo.Create(&models.ServiceProvider{ID: "p-b", Services: []string{"Cleaning"}, Verified: true, Rating: 4.0, CompletedJobs: 10})
	repo.Create(&models.ServiceProvider{ID: "p-a", Services: []string{"Cleaning"}, Verified: true, Rating: 4.0, CompletedJobs: 10})
	repo.Create(&models.ServiceProvider{ID: "p-c", Services: []string{"Cleaning"}, Verified: true, Rating: 4.0, CompletedJobs: 25})

	svc := &DefaultMatchingService{ProviderRepo: repo}
	got, err := svc.MatchProvider(context.Background(), "Cleaning")
	if err != nil {
		t.Fatalf("MatchProvider failed: %v", err)
	}
	if got.ID != "p-c" {
		t.Fatalf("matched %q, want p-c (most completed jobs)", got.ID)
	}

	// Drop the jobs leader: equal rating and jobs fall back to ID order.
	repo.providers["p-c"] = models.ServiceProvider{ID: "p-c", Services: []string{"Gardening"}, Verified: true}
	got, err = svc.MatchProvider(context.Background(), "Cleaning")
	if err != nil {
		t.Fatalf("MatchProvider failed: %v", err)
	}
	if got.ID != "p-a" {
		t.Fatalf("matched %q, want p-a (lowest ID)", got.ID)
	}
}

func TestMatchProviderNoneAvailable(t *testing.T) {
	repo := newMemProviderRepo()
	repo.Create(&models.ServiceProvider{ID: "p-1", Services: []string{"Plumbing"}, Verified: true, Rating: 4.0})

	svc := &DefaultMatchingService{ProviderRepo: repo}
	got, err := svc.MatchProvider(context.Background(), "Roofing")
	if err != nil {
		t.Fatalf("MatchProvider failed: %v", err)
	}
	if got != nil {
		t.Fatalf("matched %+v, want nil", got)
	}
}
