package seeds

import (
	"fmt"
	"log"
	"os"

	"github.com/FieldTrace/FT-Backend/internal/auth"
	"github.com/FieldTrace/FT-Backend/internal/db"
	"github.com/FieldTrace/FT-Backend/internal/surveyors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	Username string
	Role     string
	Phone    string
}

// One dispatcher plus two field surveyors, enough to walk the whole
// assignment flow on a fresh database.
var seedUsers = []seedUser{
	{Username: "dispatch", Role: "admin"},
	{Username: "surveyor_ana", Role: "surveyor", Phone: "+1-812-555-0141"},
	{Username: "surveyor_ben", Role: "surveyor", Phone: "+1-812-555-0172"},
}

func SeedUsers() error {
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	created := 0
	for _, su := range seedUsers {
		var existing auth.User
		err := db.DB.First(&existing, "username = ?", su.Username).Error

		if err == nil {
			log.Printf("⚠️ User exists, skipping: %s", su.Username)
			continue
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("DB error on user %s: %w", su.Username, err)
		}

		user := auth.User{
			UserID:         uuid.NewString(),
			Username:       su.Username,
			HashedPassword: string(hashed),
			Role:           su.Role,
		}
		if err := db.DB.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", su.Username, err)
		}
		created++
	}

	log.Printf("✅ Seeded %d users", created)
	return nil
}

// SeedSurveyors enrolls the surveyor-role seed users and links them to the
// dispatcher. Runs after SeedUsers.
func SeedSurveyors() error {
	var dispatcher auth.User
	if err := db.DB.First(&dispatcher, "username = ?", "dispatch").Error; err != nil {
		return fmt.Errorf("dispatcher user missing, run SeedUsers first: %w", err)
	}

	created := 0
	for _, su := range seedUsers {
		if su.Role != "surveyor" {
			continue
		}

		var user auth.User
		if err := db.DB.First(&user, "username = ?", su.Username).Error; err != nil {
			return fmt.Errorf("seed user %s missing: %w", su.Username, err)
		}

		var existing surveyors.Surveyor
		err := db.DB.First(&existing, "user_id = ?", user.UserID).Error
		if err == nil {
			log.Printf("⚠️ Surveyor exists, skipping: %s", su.Username)
			continue
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("DB error on surveyor %s: %w", su.Username, err)
		}

		surveyor := surveyors.Surveyor{
			UserID: user.UserID,
			Phone:  su.Phone,
			Active: true,
		}
		if err := db.DB.Create(&surveyor).Error; err != nil {
			return fmt.Errorf("failed to enroll surveyor %s: %w", su.Username, err)
		}

		link := surveyors.SurveyorAdmin{SurveyorID: surveyor.ID, AdminID: dispatcher.UserID}
		if err := db.DB.Create(&link).Error; err != nil {
			return fmt.Errorf("failed to link surveyor %s to dispatcher: %w", su.Username, err)
		}
		created++
	}

	log.Printf("✅ Seeded %d surveyors", created)
	return nil
}
