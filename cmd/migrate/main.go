package main

import (
	"crypto/sha1"
	"encoding/hex"
	"log"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"samurai/internal/app/ds"
	"samurai/internal/app/dsn"
	"samurai/internal/app/role"
)

func hashPassword(s string) string {
	h := sha1.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func main() {
	// Загрузка переменных окружения из .env файла
	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		log.Fatal("DSN string is empty. Check your .env file")
	}

	db, err := gorm.Open(postgres.Open(dsnStr), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Connected to database successfully")

	// Миграция всех моделей
	err = db.AutoMigrate(
		&ds.User{},
		&ds.SoftwareAsset{},
		&ds.UsageRecord{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database migration completed successfully")

	seed(db)
}

// seed наполняет пустую базу демонстрационными данными
func seed(db *gorm.DB) {
	var userCount int64
	db.Model(&ds.User{}).Count(&userCount)
	if userCount == 0 {
		users := []ds.User{
			{Login: "admin", Password: hashPassword("Admin@123"), Email: "admin@samurai.local",
				FullName: "Администратор", Role: int(role.Admin)},
			{Login: "ivanov", Password: hashPassword("User@123"), Email: "ivanov@samurai.local",
				FullName: "Иван Иванов", Role: int(role.Standard)},
			{Login: "petrova", Password: hashPassword("User@123"), Email: "petrova@samurai.local",
				FullName: "Мария Петрова", Role: int(role.Standard)},
		}
		if err := db.Create(&users).Error; err != nil {
			log.Fatalf("Failed to seed users: %v", err)
		}
		log.Println("Users seeded")
	}

	var assetCount int64
	db.Model(&ds.SoftwareAsset{}).Count(&assetCount)
	if assetCount > 0 {
		return
	}

	assets := []ds.SoftwareAsset{
		{Name: "Microsoft 365 E3", Vendor: "Microsoft", LicenseType: ds.LicenseSubscription,
			SeatCount: 100, CostPerSeat: 2500, RenewalDate: date(2026, 12, 1), Status: ds.StatusActive, Version: 1},
		{Name: "Adobe Creative Cloud", Vendor: "Adobe", LicenseType: ds.LicenseSubscription,
			SeatCount: 20, CostPerSeat: 4800, RenewalDate: date(2026, 9, 10), Status: ds.StatusActive, Version: 1},
		{Name: "JetBrains All Products", Vendor: "JetBrains", LicenseType: ds.LicenseSubscription,
			SeatCount: 30, CostPerSeat: 6500, RenewalDate: date(2027, 2, 15), Status: ds.StatusActive, Version: 1},
		{Name: "AutoCAD", Vendor: "Autodesk", LicenseType: ds.LicenseSubscription,
			SeatCount: 10, CostPerSeat: 15000, RenewalDate: date(2026, 7, 1), Status: ds.StatusExpired, Version: 1},
		{Name: "Visio Professional", Vendor: "Microsoft", LicenseType: ds.LicensePerpetual,
			SeatCount: 15, CostPerSeat: 3200, Status: ds.StatusActive, Version: 1},
		{Name: "Slack Business+", Vendor: "Salesforce", LicenseType: ds.LicenseSubscription,
			SeatCount: 120, CostPerSeat: 900, RenewalDate: date(2026, 9, 5), Status: ds.StatusActive, Version: 1},
		{Name: "Figma Organization", Vendor: "Figma", LicenseType: ds.LicenseTrial,
			SeatCount: 25, CostPerSeat: 0, RenewalDate: date(2026, 9, 20), Status: ds.StatusActive, Version: 1},
		{Name: "Tableau Creator", Vendor: "Salesforce", LicenseType: ds.LicenseSubscription,
			SeatCount: 8, CostPerSeat: 42000, RenewalDate: date(2027, 1, 30), Status: ds.StatusActive, Version: 1},
	}
	if err := db.Create(&assets).Error; err != nil {
		log.Fatalf("Failed to seed assets: %v", err)
	}
	log.Println("Assets seeded")

	// Детерминированные записи потребления под разные категории использования
	usedSeats := []int{92, 18, 9, 10, 4, 115, 3, 7}
	records := make([]ds.UsageRecord, 0, len(assets))
	for i, a := range assets {
		records = append(records, ds.UsageRecord{
			AssetID:    a.ID,
			Department: "ИТ отдел",
			Quantity:   usedSeats[i],
			UsedAt:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	if err := db.Create(&records).Error; err != nil {
		log.Fatalf("Failed to seed usage records: %v", err)
	}
	log.Println("Usage records seeded")
}
