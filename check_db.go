package main

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"samurai/internal/app/ds"
)

func main() {
	dsn := "host=localhost user=postgres password=password dbname=samurai_db port=5432 sslmode=disable TimeZone=Europe/Moscow"
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	var assets []ds.SoftwareAsset
	err = db.Find(&assets).Error
	if err != nil {
		log.Fatal("Failed to get assets:", err)
	}

	fmt.Println("Assets in database:")
	for _, asset := range assets {
		renewal := "NULL"
		if asset.RenewalDate != nil {
			renewal = asset.RenewalDate.Format("2006-01-02")
		}
		fmt.Printf("ID: %d, Name: %s, Vendor: %s, Seats: %d, Renewal: %s, Status: %s\n",
			asset.ID, asset.Name, asset.Vendor, asset.SeatCount, renewal, asset.Status)
	}
}
