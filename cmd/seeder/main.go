package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/laporinapp/laporin/internal/config"
	"github.com/laporinapp/laporin/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	cfg := config.Load()

	// Force DB logging off to avoid noise
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to Database")

	// Common password for all seeded users
	password := "password123"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	log.Println("🌱 Seeding users...")

	admin := seedUser(db, model.User{
		ID:       uuid.New(),
		Name:     "Pak RT",
		Email:    "rt@laporin.local",
		Password: string(hashedPassword),
		Role:     model.RoleRTAdmin,
		Avatar:   "https://api.dicebear.com/7.x/avataaars/svg?seed=pakrt",
	}, password)

	var firstCitizen *model.User
	for i := 1; i <= 5; i++ {
		citizen := seedUser(db, model.User{
			ID:       uuid.New(),
			Name:     fmt.Sprintf("Warga %d", i),
			Email:    fmt.Sprintf("warga%d@laporin.local", i),
			Password: string(hashedPassword),
			Role:     model.RoleCitizen,
			Avatar:   fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=warga%d", i),
		}, password)
		if i == 1 {
			firstCitizen = citizen
		}
	}

	if admin != nil && firstCitizen != nil {
		seedDemoReport(db, firstCitizen)
	}

	log.Println("🎉 Seeding completed!")
}

// seedUser creates the user if the email is new, returns the row either way
func seedUser(db *gorm.DB, user model.User, password string) *model.User {
	var existing model.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return &existing
	}

	if err := db.Create(&user).Error; err != nil {
		log.Printf("❌ Failed to create user %s: %v", user.Email, err)
		return nil
	}
	log.Printf("✅ Created user: %s | Email: %s | Pass: %s | Role: %s", user.Name, user.Email, password, user.Role)
	return &user
}

// seedDemoReport gives the first citizen a report with an open chat thread so
// the frontend has something to show right after seeding
func seedDemoReport(db *gorm.DB, reporter *model.User) {
	var existing model.Report
	if err := db.Where("user_id = ?", reporter.ID).First(&existing).Error; err == nil {
		return
	}

	report := model.Report{
		ID:          uuid.New(),
		UserID:      reporter.ID,
		Title:       "Lampu jalan mati di depan pos ronda",
		Description: "Sudah tiga hari lampu jalan di depan pos ronda tidak menyala, jalanan gelap sekali di malam hari.",
		Status:      model.ReportStatusReceived,
	}
	if err := db.Create(&report).Error; err != nil {
		log.Printf("❌ Failed to create demo report: %v", err)
		return
	}

	chat := model.Chat{ID: uuid.New(), ReportID: report.ID}
	if err := db.Create(&chat).Error; err != nil {
		log.Printf("❌ Failed to create demo chat: %v", err)
		return
	}

	log.Printf("✅ Created demo report %q with chat thread", report.Title)
}
