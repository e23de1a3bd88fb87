// Bootstrap tool: creates a staff user with their person profile and prints
// an initial invite code, so the very first visitors can be invited.
//
// Usage: go run scripts/create_person/main.go -username admin -password secret
package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"simpledrill_backend/internal/config"
	"simpledrill_backend/internal/model"
	"simpledrill_backend/pkg/database"
	"simpledrill_backend/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

func main() {
	username := flag.String("username", "", "username for the staff account")
	password := flag.String("password", "", "password for the staff account")
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("cannot read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("cannot parse config file: %v", err)
	}

	logger.InitLogger(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("password hashing failed: %v", err)
	}

	var invite model.Invite
	err = db.Transaction(func(tx *gorm.DB) error {
		user := &model.User{
			Username: *username,
			Password: string(hashed),
			Role:     model.Staff,
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		person := &model.Person{UserID: user.ID}
		if err := tx.Create(person).Error; err != nil {
			return err
		}

		invite = model.Invite{
			Code:      strings.ReplaceAll(uuid.New().String(), "-", ""),
			InviterID: person.ID,
			Comment:   "bootstrap invite",
			IssuedAt:  time.Now(),
		}
		return tx.Create(&invite).Error
	})
	if err != nil {
		log.Fatalf("staff person creation failed: %v", err)
	}

	log.Printf("staff person %q created, first invite code: %s", *username, invite.Code)
}
