package services

import (
	"context"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/store"
	"golang.org/x/sync/errgroup"
)

type DashboardStore interface {
	store.Users
	store.Projects
}

type DashboardService struct {
	store DashboardStore
}

func NewDashboardService(s DashboardStore) *DashboardService {
	return &DashboardService{store: s}
}

// Stats runs the three independent counts concurrently.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.store.CountProjects(ctx)
		stats.TotalProjects = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountUnpaidProjects(ctx)
		stats.PendingPayments = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountUsersByRole(ctx, models.RoleClient)
		stats.TotalClients = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
