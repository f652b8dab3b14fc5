package main

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"charavault/internal/config"
	"charavault/internal/db"
	"charavault/internal/model"
	"charavault/internal/repository"
)

type seedCharacter struct {
	Name        string
	Artist      string
	Description string
	Tags        []string
	Headshot    string
	Turnarounds []string
}

var seedUsers = map[string]string{
	"inkweaver": "seed-password",
	"pixelmoth": "seed-password",
}

var seedCharacters = []seedCharacter{
	{
		Name:        "Zara",
		Artist:      "inkweaver",
		Description: "A wandering cartographer who maps places that no longer exist.",
		Tags:        []string{"fantasy", "explorer"},
		Headshot:    "seed_zara_profile.png",
		Turnarounds: []string{"seed_zara_image1.png", "seed_zara_image2.png"},
	},
	{
		Name:        "Brontes",
		Artist:      "pixelmoth",
		Description: "Retired storm giant, now keeps bees on a floating island.",
		Tags:        []string{"fantasy", "giant", "cozy"},
		Headshot:    "seed_brontes_profile.png",
		Turnarounds: []string{"seed_brontes_image1.png"},
	},
}

func main() {
	log.Println("Starting seed script...")

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Character{},
		&model.Tag{},
		&model.CharacterTag{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	characters := repository.NewCharacterRepository(gormDB)
	tags := repository.NewTagRepository(gormDB)

	userIDs := make(map[string]uint, len(seedUsers))
	for username, password := range seedUsers {
		existing, err := users.FindByUsername(ctx, username)
		if err == nil {
			userIDs[username] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to look up user %s: %v", username, err)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user := &model.User{Username: username, PasswordHash: string(hashed)}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", username, err)
		}
		userIDs[username] = user.ID
		log.Printf("Created user %s (id=%d)", username, user.ID)
	}

	created := 0
	for _, sc := range seedCharacters {
		existing, err := characters.ListByArtist(ctx, userIDs[sc.Artist])
		if err != nil {
			log.Fatalf("Failed to list characters for %s: %v", sc.Artist, err)
		}
		if hasCharacter(existing, sc.Name) {
			continue
		}

		character := &model.Character{
			Name:          sc.Name,
			ArtistID:      userIDs[sc.Artist],
			Description:   sc.Description,
			HeadshotImage: sc.Headshot,
		}
		character.SetTurnaroundImages(sc.Turnarounds)
		if err := characters.Create(ctx, character); err != nil {
			log.Fatalf("Failed to create character %s: %v", sc.Name, err)
		}

		for _, text := range sc.Tags {
			tagID, err := tags.GetOrCreate(ctx, strings.ToLower(text))
			if err != nil {
				log.Fatalf("Failed to resolve tag %s: %v", text, err)
			}
			if err := characters.LinkTag(ctx, character.ID, tagID); err != nil {
				log.Fatalf("Failed to link tag %s: %v", text, err)
			}
		}
		created++
		log.Printf("Created character %s (id=%d)", sc.Name, character.ID)
	}

	log.Printf("Seed complete: %d users, %d new characters", len(seedUsers), created)
}

func hasCharacter(summaries []model.CharacterSummary, name string) bool {
	for _, s := range summaries {
		if s.Name == name {
			return true
		}
	}
	return false
}
