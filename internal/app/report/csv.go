package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV выгружает строки отчёта в CSV для экспорта
func WriteCSV(w io.Writer, rows []AssetReport) error {
	cw := csv.NewWriter(w)

	header := []string{
		"Software Name", "Vendor", "License Type", "Status",
		"Total Seats", "Used Seats", "Usage %",
		"Cost Per Seat", "Total Cost", "Renewal Date", "Days Until Renewal",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		renewal := ""
		days := ""
		if r.RenewalDate != nil {
			renewal = r.RenewalDate.Format("2006-01-02")
		}
		if r.DaysUntilRenewal != nil {
			days = fmt.Sprintf("%d", *r.DaysUntilRenewal)
		}

		record := []string{
			r.Name,
			r.Vendor,
			r.LicenseType,
			r.Status,
			fmt.Sprintf("%d", r.SeatCount),
			fmt.Sprintf("%d", r.UsedSeats),
			fmt.Sprintf("%.1f%%", r.Utilization*100),
			fmt.Sprintf("%.2f", r.CostPerSeat),
			fmt.Sprintf("%.2f", r.TotalCost),
			renewal,
			days,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
