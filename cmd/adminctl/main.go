package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/mykdolnyk/ban-review-website/internal/infra/config"
	"github.com/mykdolnyk/ban-review-website/internal/infra/database"
	"github.com/mykdolnyk/ban-review-website/internal/infra/logger"
	redisinfra "github.com/mykdolnyk/ban-review-website/internal/infra/redis"
	"github.com/mykdolnyk/ban-review-website/internal/infra/security"
	postgresrepo "github.com/mykdolnyk/ban-review-website/internal/repository/postgres"
	redisrepo "github.com/mykdolnyk/ban-review-website/internal/repository/redis"
	"github.com/mykdolnyk/ban-review-website/internal/usecase"
)

const usage = `adminctl manages support admin accounts.

Commands:
  createadmin --username <name> --email <address>
      Provision an admin account. The password is prompted interactively.
  removeloginrestriction --ip <address>
      Clear the failed-login counter for a client IP.
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "createadmin":
		err = createAdmin(ctx, cfg, args)
	case "removeloginrestriction":
		err = removeLoginRestriction(ctx, cfg, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%s: %v", command, err)
	}
}

func createAdmin(ctx context.Context, cfg *config.AppConfig, args []string) error {
	flags := flag.NewFlagSet("createadmin", flag.ExitOnError)
	username := flags.String("username", "", "admin username")
	email := flags.String("email", "", "admin email address")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*username) == "" || strings.TrimSpace(*email) == "" {
		return errors.New("--username and --email are required")
	}

	argonCfg := security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	if err := security.ConfigureArgon2(argonCfg); err != nil {
		return fmt.Errorf("configure argon2: %w", err)
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, zl)
	if err != nil {
		return fmt.Errorf("init postgres: %w", err)
	}
	defer pool.Close()

	repos := postgresrepo.NewRepositories(pool)

	jwtManager, err := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.App.Name, cfg.Auth.AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("init jwt manager: %w", err)
	}

	admins := usecase.NewAdminService(cfg.Auth, repos.AdminUsers, repos.AdminNotes, nil, nil, jwtManager)

	admin, err := admins.CreateAdmin(ctx, *username, *email, password)
	if err != nil {
		var violation *security.PasswordValidationError
		if errors.As(err, &violation) {
			return fmt.Errorf("password rejected: %s", violation.Error())
		}
		return err
	}

	fmt.Printf("created admin %q (id %d)\n", admin.Username, admin.ID)
	return nil
}

func removeLoginRestriction(ctx context.Context, cfg *config.AppConfig, args []string) error {
	flags := flag.NewFlagSet("removeloginrestriction", flag.ExitOnError)
	ip := flags.String("ip", "", "client IP to unrestrict")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*ip) == "" {
		return errors.New("--ip is required")
	}

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	redisClient, err := redisinfra.NewClient(cfg.Redis, zl)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	attempts := redisrepo.NewLoginAttemptRepository(redisClient.Client(), "")
	admins := usecase.NewAdminService(cfg.Auth, nil, nil, attempts, nil, nil)
	if err := admins.RemoveLoginRestriction(ctx, *ip); err != nil {
		return err
	}

	fmt.Printf("login restriction cleared for %s\n", *ip)
	return nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Print("Confirm password: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password confirmation: %w", err)
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	if len(first) == 0 {
		return "", errors.New("password must not be empty")
	}

	return string(first), nil
}
