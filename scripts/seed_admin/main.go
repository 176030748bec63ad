// Command seed_admin bootstraps the first staff account. It is meant for
// fresh deployments where no user exists yet to log in and create others.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/acadops/registrar-api/internal/models"
	"github.com/acadops/registrar-api/internal/repository"
	"github.com/acadops/registrar-api/pkg/config"
	"github.com/acadops/registrar-api/pkg/database"
)

func main() {
	var (
		email    string
		fullName string
		role     string
		timeout  time.Duration
	)

	flag.StringVar(&email, "email", "", "Email address of the account to create")
	flag.StringVar(&fullName, "name", "Administrator", "Display name of the account")
	flag.StringVar(&role, "role", string(models.RoleAdmin), "Role: ADMIN, HOD, TEACHER or DATA_OPERATOR")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Database operation timeout")
	flag.Parse()

	if email == "" {
		log.Fatal("-email is required")
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD must be set; refusing to seed a default password")
	}
	switch models.UserRole(role) {
	case models.RoleAdmin, models.RoleHOD, models.RoleTeacher, models.RoleDataOperator:
	default:
		log.Fatalf("unknown role %q", role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	users := repository.NewUserRepository(db)
	if existing, err := users.FindByEmail(ctx, email); err == nil {
		log.Fatalf("user %s already exists (id %s)", email, existing.ID)
	} else if !errors.Is(err, sql.ErrNoRows) {
		log.Fatalf("failed to check existing user: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         models.UserRole(role),
		Active:       true,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("failed to create user: %v", err)
	}

	fmt.Printf("created %s user %s (id %s)\n", user.Role, user.Email, user.ID)
}
