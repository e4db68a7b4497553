package repository

import (
	"time"

	"samurai/internal/app/ds"
	"samurai/internal/app/report"
)

// Загрузка данных для отчётов

// ReportFilter — фильтры отчётного окна
type ReportFilter struct {
	From   *time.Time
	To     *time.Time
	Vendor string
	Status string // пусто — все кроме retired
}

// GetAssetUsageData собирает активы и суммы потребления за окно отчёта
func (r *Repository) GetAssetUsageData(f ReportFilter) ([]report.AssetUsage, error) {
	q := r.db.Model(&ds.SoftwareAsset{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	} else {
		q = q.Where("status <> ?", ds.StatusRetired)
	}
	if f.Vendor != "" {
		q = q.Where("vendor = ?", f.Vendor)
	}

	var assets []ds.SoftwareAsset
	if err := q.Order("id").Find(&assets).Error; err != nil {
		return nil, err
	}

	sums, err := r.SumUsageByAsset(f.From, f.To)
	if err != nil {
		return nil, err
	}

	data := make([]report.AssetUsage, len(assets))
	for i, a := range assets {
		data[i] = report.FromAsset(a, sums[a.ID])
	}
	return data, nil
}
