package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"geoimport/internal/config"
	"geoimport/internal/database"
	"geoimport/internal/domain"
	jwtsvc "geoimport/internal/pkg/jwt"
	"geoimport/internal/repository"
)

func main() {
	email := flag.String("email", "demo@geoimport.local", "demo user email")
	password := flag.String("password", "demo1234", "demo user password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)

	user, err := users.GetByEmail(ctx, *email)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("hash password:", err)
		}
		user = &domain.User{Email: *email, PasswordHash: string(hash)}
		if err := users.Create(ctx, user); err != nil {
			log.Fatal("create user:", err)
		}
		log.Printf("Demo user created: %s / %s", *email, *password)
	case err != nil:
		log.Fatal("lookup user:", err)
	default:
		log.Printf("Demo user exists: %s (id=%d)", user.Email, user.ID)
	}

	token, err := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL).GenerateToken(user.ID, user.Email)
	if err != nil {
		log.Fatal("generate token:", err)
	}

	fmt.Println(token)
}
