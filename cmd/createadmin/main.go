// Command createadmin creates an admin account directly in the database.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin/binding"
	"github.com/usermgmt/backend/internal/config"
	"github.com/usermgmt/backend/internal/db"
	"github.com/usermgmt/backend/internal/logging"
	"github.com/usermgmt/backend/internal/model"
	"github.com/usermgmt/backend/internal/service"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "", "admin email")
	firstName := flag.String("first-name", "Admin", "first name")
	lastName := flag.String("last-name", "User", "last name")
	flag.Parse()

	if err := run(*email, *firstName, *lastName); err != nil {
		fmt.Fprintln(os.Stderr, "createadmin:", err)
		os.Exit(1)
	}
}

func run(email, firstName, lastName string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.Logging)
	ctx := context.Background()

	reader := bufio.NewReader(os.Stdin)
	if email == "" {
		if email, err = readLine(reader, os.Stdout, "Email"); err != nil {
			return err
		}
	}
	password, err := readNewPassword(os.Stdout)
	if err != nil {
		return err
	}

	req := model.CreateUserRequest{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
		Role:      model.RoleAdmin,
	}
	req.Normalize()
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return fmt.Errorf("invalid admin account: %w", err)
	}

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}

	users := service.NewUserService(db.New(pool), service.NewBcryptHasher(bcrypt.DefaultCost), log)
	user, err := users.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("admin created: id=%d email=%s\n", user.ID, user.Email)
	return nil
}
