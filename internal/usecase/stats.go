package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Stats struct {
	TotalProtocols      int
	TotalInvocations    int
	CertificatesIssued  int
	WatermarkDetections int
}

// GetStats aggregates registry counters. The counts are independent
// queries, so they run concurrently.
func (u Usecase) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := u.repo.CountProtocols(ctx)
		stats.TotalProtocols = n
		return err
	})
	g.Go(func() error {
		n, err := u.repo.CountInvocations(ctx)
		stats.TotalInvocations = n
		return err
	})
	g.Go(func() error {
		n, err := u.repo.CountCertificates(ctx)
		stats.CertificatesIssued = n
		return err
	})
	g.Go(func() error {
		n, err := u.repo.CountWatermarkDetections(ctx)
		stats.WatermarkDetections = n
		return err
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
