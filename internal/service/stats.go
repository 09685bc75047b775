package service

import (
	"context"

	"github.com/wallofhumanity/backend/internal/apperr"
	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/types"
)

type StatsService struct {
	Deps
}

func NewStatsService(deps Deps) *StatsService {
	return &StatsService{Deps: deps.withDefaults()}
}

type groupCount struct {
	Bucket string
	Count  int64
}

func (s *StatsService) Stats(ctx context.Context) (*types.Stats, error) {
	db := s.DB.WithContext(ctx)
	stats := &types.Stats{
		DonationsByStatus: map[string]int64{},
		DonationsByType:   map[string]int64{},
	}

	// every known bucket is reported, even when empty
	for _, st := range []models.DonationStatus{models.DonationAvailable, models.DonationPending, models.DonationRequested, models.DonationCompleted} {
		stats.DonationsByStatus[string(st)] = 0
	}
	for _, t := range []models.DonationType{models.DonationFood, models.DonationClothes, models.DonationBooks, models.DonationOther} {
		stats.DonationsByType[string(t)] = 0
	}

	var rows []groupCount
	if err := db.Model(&models.Donation{}).Select("status AS bucket, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, apperr.Internal("Failed to count donations", err)
	}
	for _, r := range rows {
		stats.DonationsByStatus[r.Bucket] = r.Count
		stats.TotalDonations += r.Count
	}

	rows = nil
	if err := db.Model(&models.Donation{}).Select("type AS bucket, COUNT(*) AS count").Group("type").Scan(&rows).Error; err != nil {
		return nil, apperr.Internal("Failed to count donations", err)
	}
	for _, r := range rows {
		stats.DonationsByType[r.Bucket] = r.Count
	}

	counts := []struct {
		model interface{}
		where string
		arg   interface{}
		dst   *int64
	}{
		{&models.Request{}, "", nil, &stats.TotalRequests},
		{&models.User{}, "", nil, &stats.TotalUsers},
		{&models.NGO{}, "status = ?", models.NGOApproved, &stats.ApprovedNGOs},
		{&models.Volunteer{}, "", nil, &stats.Volunteers},
		{&models.FreeFoodListing{}, "", nil, &stats.FreeFoodListings},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.arg)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, apperr.Internal("Failed to compute stats", err)
		}
	}
	return stats, nil
}
