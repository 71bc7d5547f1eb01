package main

import (
	"log"
	"os"

	"gestiostock-backend/internal/model"
	"gestiostock-backend/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Emergency password reset for a locked-out account. Run on the server, not
// exposed over HTTP.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	db := database.ConnectDB()

	email := os.Getenv("RESET_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	newPassword := os.Getenv("RESET_PASSWORD")
	if newPassword == "" {
		newPassword = "admin123"
	}

	var user model.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		log.Fatalf("User %s not found in database: %v", email, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// Invalidate open sessions along with the password.
	updates := map[string]interface{}{
		"password":      string(hashedPassword),
		"token_version": "",
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		log.Fatalf("Failed to update password in DB: %v", err)
	}

	log.Printf("Password for %s has been reset", email)
}
