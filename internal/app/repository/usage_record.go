package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"samurai/internal/app/apperr"
	"samurai/internal/app/ds"
)

// Методы для записей использования

// CreateUsageRecord создает запись потребления мест.
// Превышение числа мест не блокируется — оно попадёт в отчёт как нарушение
func (r *Repository) CreateUsageRecord(rec *ds.UsageRecord) error {
	if rec.Quantity <= 0 {
		return fmt.Errorf("%w: количество должно быть положительным", apperr.ErrValidation)
	}

	asset, err := r.GetAssetByID(rec.AssetID)
	if err != nil {
		return err
	}
	if asset.Status == ds.StatusRetired {
		return fmt.Errorf("%w: актив %d удалён, запись использования невозможна", apperr.ErrValidation, rec.AssetID)
	}

	if rec.UsedAt.IsZero() {
		rec.UsedAt = time.Now()
	}

	return r.db.Create(rec).Error
}

// GetUsageByAsset возвращает историю использования актива.
// История доступна и для логически удалённых активов
func (r *Repository) GetUsageByAsset(assetID uint, from, to *time.Time) ([]ds.UsageRecord, error) {
	if _, err := r.GetAssetByID(assetID); err != nil {
		return nil, err
	}

	q := r.db.Where("asset_id = ?", assetID)
	if from != nil {
		q = q.Where("used_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("used_at <= ?", *to)
	}

	var records []ds.UsageRecord
	err := q.Preload("User").Order("used_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Repository) GetUsageRecordByID(id uint) (*ds.UsageRecord, error) {
	var rec ds.UsageRecord
	err := r.db.First(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: запись использования %d", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &rec, nil
}

// DeleteUsageRecord удаляет запись физически (в отличие от активов)
func (r *Repository) DeleteUsageRecord(id uint) error {
	result := r.db.Delete(&ds.UsageRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: запись использования %d", apperr.ErrNotFound, id)
	}
	return nil
}

// SumUsageByAsset возвращает суммарное потребление мест по активам за окно
func (r *Repository) SumUsageByAsset(from, to *time.Time) (map[uint]int, error) {
	type row struct {
		AssetID uint
		Total   int
	}

	q := r.db.Model(&ds.UsageRecord{}).
		Select("asset_id, SUM(quantity) AS total").
		Group("asset_id")
	if from != nil {
		q = q.Where("used_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("used_at <= ?", *to)
	}

	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[uint]int, len(rows))
	for _, r := range rows {
		sums[r.AssetID] = r.Total
	}
	return sums, nil
}
