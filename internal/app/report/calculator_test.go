package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samurai/internal/app/ds"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestUtilization(t *testing.T) {
	assert.Equal(t, 0.7, Utilization(7, 10))
	assert.Equal(t, 0.0, Utilization(0, 10))
	// деление на ноль мест не допускается
	assert.Equal(t, 0.0, Utilization(5, 0))
	// превышение мест дает долю больше единицы
	assert.Equal(t, 1.5, Utilization(15, 10))
}

func TestBuildSummaryAggregates(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	opts := Options{Now: now, ExpiryThresholdDays: 30, UnderutilizedPercent: 30}

	assets := []AssetUsage{
		{ID: 1, Name: "Office Suite", Vendor: "Microsoft", LicenseType: ds.LicenseSubscription,
			Status: ds.StatusActive, SeatCount: 10, CostPerSeat: 1000, UsedSeats: 7,
			RenewalDate: datePtr(now.AddDate(0, 6, 0))},
		{ID: 2, Name: "Design Tool", Vendor: "Adobe", LicenseType: ds.LicenseSubscription,
			Status: ds.StatusActive, SeatCount: 20, CostPerSeat: 500, UsedSeats: 2,
			RenewalDate: datePtr(now.AddDate(0, 0, 10))},
		{ID: 3, Name: "Old CAD", Vendor: "Autodesk", LicenseType: ds.LicenseSubscription,
			Status: ds.StatusExpired, SeatCount: 5, CostPerSeat: 2000, UsedSeats: 5,
			RenewalDate: datePtr(now.AddDate(0, 0, -5))},
	}

	s := BuildSummary(assets, opts)

	assert.Equal(t, 3, s.TotalAssets)
	assert.Equal(t, 35, s.TotalSeats)
	assert.Equal(t, 14, s.UsedSeats)
	assert.InDelta(t, 10000+10000+10000, s.TotalCost, 0.001)
	assert.InDelta(t, float64(14)/float64(35), s.Utilization, 0.0001)

	// первый актив: 7 из 10 мест = 0.7
	require.Len(t, s.Assets, 3)
	assert.InDelta(t, 0.7, s.Assets[0].Utilization, 0.0001)

	// сроки продления
	require.Len(t, s.ExpiringSoon, 1)
	assert.Equal(t, uint(2), s.ExpiringSoon[0].ID)
	require.Len(t, s.Expired, 1)
	assert.Equal(t, uint(3), s.Expired[0].ID)

	// недоиспользование: 2 из 20 = 10% < 30%
	require.Len(t, s.Underutilized, 1)
	assert.Equal(t, uint(2), s.Underutilized[0].ID)
	assert.InDelta(t, float64(20-2)*500, s.PotentialSavings, 0.001)

	// распределения
	assert.Equal(t, map[string]int{ds.LicenseSubscription: 3}, s.LicenseTypes)
	assert.Equal(t, 1, s.VendorDistribution["Microsoft"])
	assert.Equal(t, 1, s.VendorDistribution["Adobe"])
}

func TestBuildSummaryCategories(t *testing.T) {
	now := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	opts := Options{Now: now, ExpiryThresholdDays: 30, UnderutilizedPercent: 30}

	assets := []AssetUsage{
		// использование 0.9 (high), стоимость 120000 (high)
		{ID: 1, Name: "A", Vendor: "V", LicenseType: ds.LicensePerpetual, Status: ds.StatusActive,
			SeatCount: 10, CostPerSeat: 12000, UsedSeats: 9},
		// использование 0.5 (medium), стоимость 15000 (medium)
		{ID: 2, Name: "B", Vendor: "V", LicenseType: ds.LicensePerpetual, Status: ds.StatusActive,
			SeatCount: 10, CostPerSeat: 1500, UsedSeats: 5},
		// использование 0.1 (low), стоимость 500 (low)
		{ID: 3, Name: "C", Vendor: "V", LicenseType: ds.LicensePerpetual, Status: ds.StatusActive,
			SeatCount: 10, CostPerSeat: 50, UsedSeats: 1},
	}

	s := BuildSummary(assets, opts)

	assert.Equal(t, Categories{High: 1, Medium: 1, Low: 1}, s.UsageCategories)
	assert.Equal(t, Categories{High: 1, Medium: 1, Low: 1}, s.CostCategories)
}

func TestBuildSummaryViolations(t *testing.T) {
	now := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	opts := Options{Now: now, ExpiryThresholdDays: 30, UnderutilizedPercent: 30}

	assets := []AssetUsage{
		{ID: 1, Name: "Overbooked", Vendor: "V", LicenseType: ds.LicensePerpetual,
			Status: ds.StatusActive, SeatCount: 10, CostPerSeat: 100, UsedSeats: 12},
		{ID: 2, Name: "Fine", Vendor: "V", LicenseType: ds.LicensePerpetual,
			Status: ds.StatusActive, SeatCount: 10, CostPerSeat: 100, UsedSeats: 10},
	}

	s := BuildSummary(assets, opts)

	require.Len(t, s.Violations, 1)
	assert.Equal(t, uint(1), s.Violations[0].AssetID)
	assert.Equal(t, 12, s.Violations[0].UsedSeats)
	assert.Equal(t, 10, s.Violations[0].SeatCount)
}

func TestBuildSummaryTopByUtilization(t *testing.T) {
	now := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	opts := Options{Now: now, ExpiryThresholdDays: 30, UnderutilizedPercent: 30}

	var assets []AssetUsage
	for i := 1; i <= 7; i++ {
		assets = append(assets, AssetUsage{
			ID: uint(i), Name: "A", Vendor: "V", LicenseType: ds.LicensePerpetual,
			Status: ds.StatusActive, SeatCount: 10, CostPerSeat: 100, UsedSeats: i,
		})
	}

	s := BuildSummary(assets, opts)

	require.Len(t, s.TopByUtilization, 5)
	assert.Equal(t, uint(7), s.TopByUtilization[0].ID)
	assert.Equal(t, uint(3), s.TopByUtilization[4].ID)
}

func TestBuildSummaryEmpty(t *testing.T) {
	s := BuildSummary(nil, Options{Now: time.Now(), ExpiryThresholdDays: 30, UnderutilizedPercent: 30})

	assert.Equal(t, 0, s.TotalAssets)
	assert.Equal(t, 0.0, s.Utilization)
	assert.NotNil(t, s.Assets)
	assert.NotNil(t, s.ExpiringSoon)
}

func TestFromAsset(t *testing.T) {
	renewal := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	a := ds.SoftwareAsset{
		ID: 5, Name: "Suite", Vendor: "ACME", LicenseType: ds.LicenseSubscription,
		Status: ds.StatusActive, SeatCount: 10, CostPerSeat: 300, RenewalDate: &renewal,
	}

	in := FromAsset(a, 7)

	assert.Equal(t, uint(5), in.ID)
	assert.Equal(t, 7, in.UsedSeats)
	assert.Equal(t, &renewal, in.RenewalDate)
}
