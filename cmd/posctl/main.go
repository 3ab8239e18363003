// posctl tareas de operación sobre la base de datos: aplicar migraciones y crear el primer administrador.
//
// Uso:
//
//	posctl migrate
//	posctl seed-admin --name "Admin" --email admin@tienda.com --password secreto
package main

import (
	"context"
	"fmt"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-api/migrations"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

const minPasswordLen = 6

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "posctl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "posctl",
		Usage: "tareas de operación de pos-api",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "aplica los scripts SQL pendientes",
				Action: runMigrate,
			},
			{
				Name:  "seed-admin",
				Usage: "crea un usuario ADMIN si el email no existe",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"POS_ADMIN_PASSWORD"}},
				},
				Action: runSeedAdmin,
			},
		},
	}
}

// connect carga la configuración y abre el pool. El caller cierra el pool.
func connect(ctx context.Context) (*pgxpool.Pool, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("posctl")
	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return pool, log, nil
}

func runMigrate(c *cli.Context) error {
	ctx := c.Context
	scripts, err := migrations.All()
	if err != nil {
		return fmt.Errorf("leer migraciones: %w", err)
	}
	pool, log, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("crear schema_migrations: %w", err)
	}
	applied, err := appliedMigrations(ctx, pool)
	if err != nil {
		return err
	}

	for _, s := range pending(scripts, applied) {
		err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, s.SQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, s.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("migración %s: %w", s.Name, err)
		}
		log.Info().Str("script", s.Name).Msg("migración aplicada")
	}
	log.Info().Int("total", len(scripts)).Msg("esquema al día")
	return nil
}

func appliedMigrations(ctx context.Context, pool *pgxpool.Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("consultar schema_migrations: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("consultar schema_migrations: %w", err)
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out, nil
}

// pending conserva el orden de scripts.
func pending(scripts []migrations.Script, applied map[string]bool) []migrations.Script {
	var out []migrations.Script
	for _, s := range scripts {
		if !applied[s.Name] {
			out = append(out, s)
		}
	}
	return out
}

func adminFromFlags(c *cli.Context) (*entity.User, error) {
	name := strings.TrimSpace(c.String("name"))
	email := strings.ToLower(strings.TrimSpace(c.String("email")))
	password := c.String("password")
	if name == "" {
		return nil, fmt.Errorf("name vacío")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("email inválido: %q", email)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password debe tener al menos %d caracteres", minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	return &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func runSeedAdmin(c *cli.Context) error {
	admin, err := adminFromFlags(c)
	if err != nil {
		return err
	}
	pool, log, err := connect(c.Context)
	if err != nil {
		return err
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	existing, err := users.GetByEmail(admin.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Warn().Str("email", admin.Email).Str("role", existing.Role).Msg("el usuario ya existe, no se modifica")
		return nil
	}
	if err := users.Create(admin); err != nil {
		return err
	}
	log.Info().Str("id", admin.ID).Str("email", admin.Email).Msg("administrador creado")
	return nil
}
