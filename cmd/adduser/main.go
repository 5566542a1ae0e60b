package main

import (
	"context"
	"flag"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vault-staking-go/internal/common"
	"vault-staking-go/internal/config"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	return nil
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	nameFlag := flag.String("name", "", "User's display name")
	emailFlag := flag.String("email", "", "User's email address")
	flag.Parse()

	if err := validateName(*nameFlag); err != nil {
		logger.Fatal("Invalid name", zap.Error(err))
	}
	if err := validateEmail(*emailFlag); err != nil {
		logger.Fatal("Invalid email", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	userId := uuid.NewString()
	user, err := services.DbService.CreateUser(ctx, userId, *nameFlag, *emailFlag)
	if err != nil {
		logger.Fatal("Failed to create user", zap.Error(err))
	}

	logger.Info("User created",
		zap.String("user_id", user.Id),
		zap.String("name", user.Name),
		zap.String("email", user.Email))

	token, err := services.Authenticator.IssueToken(user.Id)
	if err != nil {
		logger.Fatal("Failed to issue token", zap.Error(err))
	}

	common.PrintHeader("USER CREATED", common.DefaultWidth)
	fmt.Printf("ID:    %s\n", user.Id)
	fmt.Printf("Name:  %s\n", user.Name)
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Token: %s\n", token)
	common.PrintFooter("Keep the token secret. It expires after "+cfg.Auth.TokenTTL.String(), common.DefaultWidth)
}
