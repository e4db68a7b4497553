package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	renewal := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	days := 98
	rows := []AssetReport{
		{
			Name: "Office Suite", Vendor: "Microsoft", LicenseType: "subscription",
			Status: "active", SeatCount: 10, UsedSeats: 7, Utilization: 0.7,
			CostPerSeat: 1000, TotalCost: 10000,
			RenewalDate: &renewal, DaysUntilRenewal: &days,
		},
		{
			Name: "Visio", Vendor: "Microsoft", LicenseType: "perpetual",
			Status: "active", SeatCount: 5, UsedSeats: 0, Utilization: 0,
			CostPerSeat: 3200, TotalCost: 16000,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 3)

	assert.Equal(t, "Software Name", parsed[0][0])
	assert.Equal(t, []string{
		"Office Suite", "Microsoft", "subscription", "active",
		"10", "7", "70.0%", "1000.00", "10000.00", "2026-12-01", "98",
	}, parsed[1])

	// без даты продления колонки остаются пустыми
	assert.Equal(t, "", parsed[2][9])
	assert.Equal(t, "", parsed[2][10])
}
