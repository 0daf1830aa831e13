// seed prepara una base nueva.
//
// Uso:
//
//	go run ./cmd/seed superadmin
//	go run ./cmd/seed clients -company <uuid> [-encoding windows-1252|utf-8] clientes.csv
//
// superadmin crea el usuario inicial con SEED_SUPERADMIN_EMAIL y
// SEED_SUPERADMIN_PASSWORD si aún no existe. clients importa un CSV
// (nombre,email,teléfono,empresa) exportado desde hojas de cálculo.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
	"github.com/domka/erp-api/internal/infrastructure/postgres"
	"github.com/domka/erp-api/pkg/config"
	"github.com/domka/erp-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed superadmin | seed clients -company <uuid> archivo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	switch os.Args[1] {
	case "superadmin":
		created, err := seedSuperadmin(ctx, postgres.NewUserRepository(pool), cfg.Seed)
		if err != nil {
			log.Fatal().Err(err).Msg("crear superadmin")
		}
		if created {
			log.Info().Str("email", cfg.Seed.SuperadminEmail).Msg("superadmin creado")
		} else {
			log.Info().Str("email", cfg.Seed.SuperadminEmail).Msg("superadmin ya existía")
		}

	case "clients":
		fs := flag.NewFlagSet("clients", flag.ExitOnError)
		companyID := fs.String("company", "", "empresa destino (uuid)")
		encoding := fs.String("encoding", encodingWindows1252, "codificación del CSV: windows-1252 | utf-8")
		_ = fs.Parse(os.Args[2:])
		if *companyID == "" || fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "uso: seed clients -company <uuid> [-encoding windows-1252|utf-8] archivo.csv")
			os.Exit(2)
		}
		company, err := postgres.NewCompanyRepository(pool).GetByID(ctx, *companyID)
		if err != nil || company == nil {
			log.Fatal().Err(err).Str("company_id", *companyID).Msg("empresa no encontrada")
		}

		f, err := os.Open(fs.Arg(0))
		if err != nil {
			log.Fatal().Err(err).Msg("abrir CSV")
		}
		defer f.Close()

		rows, err := readClientsCSV(f, *encoding)
		if err != nil {
			log.Fatal().Err(err).Msg("leer CSV")
		}
		res := importClients(ctx, postgres.NewClientRepository(pool), company.ID, rows, time.Now)
		log.Info().
			Int("importados", res.Imported).
			Int("duplicados", res.Duplicates).
			Int("omitidos", res.Skipped).
			Msg("importación de clientes terminada")

	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q\n", os.Args[1])
		os.Exit(2)
	}
}

// seedSuperadmin crea el superadmin si el email no existe. false si ya existía.
func seedSuperadmin(ctx context.Context, users repository.UserRepository, cfg config.SeedConfig) (bool, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(cfg.SuperadminEmail))
	if err != nil {
		return false, fmt.Errorf("SEED_SUPERADMIN_EMAIL inválido: %w", err)
	}
	if len(cfg.SuperadminPassword) < 8 {
		return false, errors.New("SEED_SUPERADMIN_PASSWORD debe tener al menos 8 caracteres")
	}
	email := strings.ToLower(addr.Address)

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SuperadminPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash: %w", err)
	}
	now := time.Now()
	err = users.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(cfg.SuperadminName),
		Role:         entity.RoleSuperadmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		return false, nil
	}
	return err == nil, err
}
