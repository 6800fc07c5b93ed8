// cmd/seeduser creates or updates a login, typically the first admin.
// Usage: go run ./cmd/seeduser -username admin -password secret123 [-role admin] [-store STORE1]
// With -hash-only it just prints the bcrypt hash of -password.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/yashas-13/inv-123/internal/config"
	"github.com/yashas-13/inv-123/internal/infra"
	"github.com/yashas-13/inv-123/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	username := flag.String("username", "admin", "login name")
	password := flag.String("password", "", "password (at least 8 characters)")
	role := flag.String("role", model.RoleAdmin, "admin | arivu | store")
	store := flag.String("store", "", "retail partner store_id, required for store users")
	hashOnly := flag.Bool("hash-only", false, "print the bcrypt hash and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.SetupLogger(cfg.Env, cfg.LogLevel)

	if len(*password) < 8 {
		log.Fatal().Msg("-password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}
	if *hashOnly {
		fmt.Println(string(hash))
		return
	}

	switch *role {
	case model.RoleAdmin, model.RoleArivu:
	case model.RoleStore:
		if *store == "" {
			log.Fatal().Msg("-store is required for store users")
		}
	default:
		log.Fatal().Str("role", *role).Msg("unknown role")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, infra.DBOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}

	user := model.User{
		ID:           uuid.New(),
		Username:     *username,
		PasswordHash: string(hash),
		Role:         *role,
		Active:       true,
	}
	if *store != "" {
		user.StoreID = store
	}

	err = db.WithContext(context.Background()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "role", "store_id", "active", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		log.Fatal().Err(err).Msg("upsert user")
	}
	log.Info().Str("username", user.Username).Str("role", user.Role).Msg("user created or updated")
}
