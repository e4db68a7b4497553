package report

import (
	"sort"
	"time"

	"samurai/internal/app/ds"
)

// AssetUsage — входные данные расчёта по одному активу:
// сам актив плюс суммарное потребление мест за окно отчёта
type AssetUsage struct {
	ID          uint
	Name        string
	Vendor      string
	LicenseType string
	Status      string
	SeatCount   int
	CostPerSeat float64
	RenewalDate *time.Time
	UsedSeats   int
}

// Options — параметры расчёта
type Options struct {
	Now                  time.Time
	ExpiryThresholdDays  int     // окно "скоро истекает"
	UnderutilizedPercent float64 // порог недоиспользования, %
}

// AssetReport — строка отчёта по активу
type AssetReport struct {
	ID               uint       `json:"id"`
	Name             string     `json:"name"`
	Vendor           string     `json:"vendor"`
	LicenseType      string     `json:"license_type"`
	Status           string     `json:"status"`
	SeatCount        int        `json:"seat_count"`
	UsedSeats        int        `json:"used_seats"`
	Utilization      float64    `json:"utilization"` // доля занятых мест, 0..1+
	CostPerSeat      float64    `json:"cost_per_seat"`
	TotalCost        float64    `json:"total_cost"`
	RenewalDate      *time.Time `json:"renewal_date,omitempty"`
	DaysUntilRenewal *int       `json:"days_until_renewal,omitempty"`
}

// Categories — распределение активов по категориям
type Categories struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Violation — мягкое нарушение: потребление превышает число мест
type Violation struct {
	AssetID   uint   `json:"asset_id"`
	AssetName string `json:"asset_name"`
	UsedSeats int    `json:"used_seats"`
	SeatCount int    `json:"seat_count"`
}

// Summary — агрегированный отчёт по инвентарю
type Summary struct {
	TotalAssets        int            `json:"total_assets"`
	TotalSeats         int            `json:"total_seats"`
	UsedSeats          int            `json:"used_seats"`
	TotalCost          float64        `json:"total_cost"`
	AvgCostPerSeat     float64        `json:"avg_cost_per_seat"`
	Utilization        float64        `json:"utilization"` // общая доля занятых мест
	ExpiringSoon       []AssetReport  `json:"expiring_soon"`
	Expired            []AssetReport  `json:"expired"`
	Underutilized      []AssetReport  `json:"underutilized"`
	PotentialSavings   float64        `json:"potential_savings"`
	LicenseTypes       map[string]int `json:"license_types"`
	VendorDistribution map[string]int `json:"vendor_distribution"`
	UsageCategories    Categories     `json:"usage_categories"`
	CostCategories     Categories     `json:"cost_categories"`
	TopByUtilization   []AssetReport  `json:"top_by_utilization"`
	Violations         []Violation    `json:"violations"`
	Assets             []AssetReport  `json:"assets"`
}

// Utilization возвращает долю занятых мест для актива
func Utilization(usedSeats, seatCount int) float64 {
	if seatCount == 0 {
		return 0
	}
	return float64(usedSeats) / float64(seatCount)
}

// BuildSummary строит отчёт по инвентарю. Результат детерминирован
// для одинакового состояния хранилища
func BuildSummary(assets []AssetUsage, opts Options) Summary {
	now := opts.Now
	threshold := now.AddDate(0, 0, opts.ExpiryThresholdDays)

	s := Summary{
		ExpiringSoon:       []AssetReport{},
		Expired:            []AssetReport{},
		Underutilized:      []AssetReport{},
		LicenseTypes:       map[string]int{},
		VendorDistribution: map[string]int{},
		TopByUtilization:   []AssetReport{},
		Violations:         []Violation{},
		Assets:             make([]AssetReport, 0, len(assets)),
	}

	for _, a := range assets {
		util := Utilization(a.UsedSeats, a.SeatCount)
		totalCost := float64(a.SeatCount) * a.CostPerSeat

		row := AssetReport{
			ID:          a.ID,
			Name:        a.Name,
			Vendor:      a.Vendor,
			LicenseType: a.LicenseType,
			Status:      a.Status,
			SeatCount:   a.SeatCount,
			UsedSeats:   a.UsedSeats,
			Utilization: util,
			CostPerSeat: a.CostPerSeat,
			TotalCost:   totalCost,
			RenewalDate: a.RenewalDate,
		}
		if a.RenewalDate != nil {
			days := int(a.RenewalDate.Sub(now).Hours() / 24)
			row.DaysUntilRenewal = &days
		}

		s.TotalAssets++
		s.TotalSeats += a.SeatCount
		s.UsedSeats += a.UsedSeats
		s.TotalCost += totalCost
		s.LicenseTypes[a.LicenseType]++
		s.VendorDistribution[a.Vendor]++

		// сроки продления
		if a.RenewalDate != nil {
			if !a.RenewalDate.After(now) {
				s.Expired = append(s.Expired, row)
			} else if !a.RenewalDate.After(threshold) {
				s.ExpiringSoon = append(s.ExpiringSoon, row)
			}
		}

		// категории использования
		switch {
		case util >= 0.8:
			s.UsageCategories.High++
		case util*100 >= opts.UnderutilizedPercent:
			s.UsageCategories.Medium++
		default:
			s.UsageCategories.Low++
		}

		// категории стоимости
		switch {
		case totalCost >= 100000:
			s.CostCategories.High++
		case totalCost >= 10000:
			s.CostCategories.Medium++
		default:
			s.CostCategories.Low++
		}

		// недоиспользуемые активы и возможная экономия
		if util*100 < opts.UnderutilizedPercent {
			s.Underutilized = append(s.Underutilized, row)
			s.PotentialSavings += float64(a.SeatCount-a.UsedSeats) * a.CostPerSeat
		}

		// мягкое нарушение: потребление выше числа мест
		if a.UsedSeats > a.SeatCount {
			s.Violations = append(s.Violations, Violation{
				AssetID:   a.ID,
				AssetName: a.Name,
				UsedSeats: a.UsedSeats,
				SeatCount: a.SeatCount,
			})
		}

		s.Assets = append(s.Assets, row)
	}

	if s.TotalSeats > 0 {
		s.Utilization = float64(s.UsedSeats) / float64(s.TotalSeats)
		s.AvgCostPerSeat = s.TotalCost / float64(s.TotalSeats)
	}

	// сортировка по датам продления для стабильного вывода
	sortByRenewal(s.ExpiringSoon)
	sortByRenewal(s.Expired)

	// топ активов по использованию
	top := make([]AssetReport, len(s.Assets))
	copy(top, s.Assets)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Utilization > top[j].Utilization
	})
	if len(top) > 5 {
		top = top[:5]
	}
	s.TopByUtilization = top

	return s
}

func sortByRenewal(rows []AssetReport) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].RenewalDate == nil || rows[j].RenewalDate == nil {
			return rows[j].RenewalDate == nil && rows[i].RenewalDate != nil
		}
		return rows[i].RenewalDate.Before(*rows[j].RenewalDate)
	})
}

// FromAsset собирает входную строку расчёта из модели и суммы потребления
func FromAsset(a ds.SoftwareAsset, usedSeats int) AssetUsage {
	return AssetUsage{
		ID:          a.ID,
		Name:        a.Name,
		Vendor:      a.Vendor,
		LicenseType: a.LicenseType,
		Status:      a.Status,
		SeatCount:   a.SeatCount,
		CostPerSeat: a.CostPerSeat,
		RenewalDate: a.RenewalDate,
		UsedSeats:   usedSeats,
	}
}
