package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"samurai/internal/app/apperr"
	"samurai/internal/app/ds"
)

// Методы для работы с программными активами

// AssetFilter — фильтры списка активов
type AssetFilter struct {
	Vendor      string
	Status      string // пусто — все кроме retired
	Query       string // поиск по названию и вендору
	RenewalFrom *time.Time
	RenewalTo   *time.Time
	Page        int
	PerPage     int
}

func validateAsset(a *ds.SoftwareAsset) error {
	if a.Name == "" {
		return fmt.Errorf("%w: название актива обязательно", apperr.ErrValidation)
	}
	if a.Vendor == "" {
		return fmt.Errorf("%w: вендор обязателен", apperr.ErrValidation)
	}
	if a.SeatCount < 0 {
		return fmt.Errorf("%w: количество мест не может быть отрицательным", apperr.ErrValidation)
	}
	if a.CostPerSeat < 0 {
		return fmt.Errorf("%w: стоимость не может быть отрицательной", apperr.ErrValidation)
	}

	switch a.LicenseType {
	case ds.LicensePerpetual, ds.LicenseSubscription, ds.LicenseTrial:
	default:
		return fmt.Errorf("%w: неизвестный тип лицензии %q", apperr.ErrValidation, a.LicenseType)
	}

	if a.LicenseType == ds.LicenseSubscription && a.RenewalDate == nil {
		return fmt.Errorf("%w: для подписки обязательна дата продления", apperr.ErrValidation)
	}

	switch a.Status {
	case ds.StatusActive, ds.StatusExpired, ds.StatusRetired:
	default:
		return fmt.Errorf("%w: неизвестный статус %q", apperr.ErrValidation, a.Status)
	}

	return nil
}

// CreateAsset создает актив после проверки инвариантов
func (r *Repository) CreateAsset(a *ds.SoftwareAsset) error {
	if a.Status == "" {
		a.Status = ds.StatusActive
	}
	if a.Version == 0 {
		a.Version = 1
	}

	if err := validateAsset(a); err != nil {
		return err
	}

	// Дубликат по паре (название, вендор) среди неудалённых
	var count int64
	err := r.db.Model(&ds.SoftwareAsset{}).
		Where("name = ? AND vendor = ? AND status <> ?", a.Name, a.Vendor, ds.StatusRetired).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: актив %q вендора %q уже существует", apperr.ErrValidation, a.Name, a.Vendor)
	}

	return r.db.Create(a).Error
}

// GetAssetByID возвращает актив в любом статусе, включая retired
func (r *Repository) GetAssetByID(id uint) (*ds.SoftwareAsset, error) {
	var asset ds.SoftwareAsset
	err := r.db.First(&asset, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: актив %d", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &asset, nil
}

// ListAssets возвращает страницу активов по фильтрам и общее количество
func (r *Repository) ListAssets(f AssetFilter) ([]ds.SoftwareAsset, int64, error) {
	q := r.db.Model(&ds.SoftwareAsset{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	} else {
		// удалённые активы не попадают в обычные списки
		q = q.Where("status <> ?", ds.StatusRetired)
	}
	if f.Vendor != "" {
		q = q.Where("vendor = ?", f.Vendor)
	}
	if f.Query != "" {
		q = q.Where("name ILIKE ? OR vendor ILIKE ?", "%"+f.Query+"%", "%"+f.Query+"%")
	}
	if f.RenewalFrom != nil {
		q = q.Where("renewal_date >= ?", *f.RenewalFrom)
	}
	if f.RenewalTo != nil {
		q = q.Where("renewal_date <= ?", *f.RenewalTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = 20
	}

	var assets []ds.SoftwareAsset
	err := q.Order("id").
		Offset((f.Page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&assets).Error
	if err != nil {
		return nil, 0, err
	}

	return assets, total, nil
}

// UpdateAsset применяет изменения, если версия не устарела с момента чтения.
// Версия записи увеличивается при каждом успешном обновлении
func (r *Repository) UpdateAsset(a *ds.SoftwareAsset, readVersion uint) error {
	if err := validateAsset(a); err != nil {
		return err
	}

	result := r.db.Model(&ds.SoftwareAsset{}).
		Where("id = ? AND version = ?", a.ID, readVersion).
		Updates(map[string]interface{}{
			"name":          a.Name,
			"vendor":        a.Vendor,
			"description":   a.Description,
			"license_type":  a.LicenseType,
			"seat_count":    a.SeatCount,
			"cost_per_seat": a.CostPerSeat,
			"renewal_date":  a.RenewalDate,
			"status":        a.Status,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		// либо записи нет, либо версия продвинулась после чтения клиентом
		if _, err := r.GetAssetByID(a.ID); err != nil {
			return err
		}
		return fmt.Errorf("%w: актив %d изменён другим пользователем", apperr.ErrConflict, a.ID)
	}

	return nil
}

// DeleteAsset выполняет логическое удаление (статус retired).
// История использования при этом сохраняется
func (r *Repository) DeleteAsset(id uint) error {
	result := r.db.Exec(
		"UPDATE software_assets SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND status <> ?",
		ds.StatusRetired, time.Now(), id, ds.StatusRetired,
	)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		// уже retired — не ошибка, повторное удаление идемпотентно
		if _, err := r.GetAssetByID(id); err != nil {
			return err
		}
	}

	return nil
}

// AssetExists проверяет наличие неудалённого актива
func (r *Repository) AssetExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&ds.SoftwareAsset{}).
		Where("id = ? AND status <> ?", id, ds.StatusRetired).
		Count(&count).Error
	return count > 0, err
}
