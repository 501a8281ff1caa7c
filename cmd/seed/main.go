// seed prepara una base nueva: aplica migraciones, crea el primer administrador
// e importa el catálogo de ítems desde una planilla (.xlsx o .csv con ';').
//
// Uso:
//
//	go run ./cmd/seed migrate
//	go run ./cmd/seed create-admin <email> <password> [nombre]
//	go run ./cmd/seed import-items <planilla.xlsx|planilla.csv>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/usecase"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/infrastructure/postgres"
	"github.com/logistock/logistock-api/internal/infrastructure/spreadsheet"
	"github.com/logistock/logistock-api/pkg/config"
	"github.com/logistock/logistock-api/pkg/logger"
)

func usage() {
	fmt.Fprintf(os.Stderr, "uso: %s migrate | create-admin <email> <password> [nombre] | import-items <archivo>\n", filepath.Base(os.Args[0]))
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Int("applied", len(applied)).Strs("migrations", applied).Msg("migraciones al día")

	repos := postgres.NewRepos(pool)
	switch os.Args[1] {
	case "migrate":
	case "create-admin":
		if len(os.Args) < 4 {
			usage()
		}
		name := "Administrador"
		if len(os.Args) > 4 {
			name = os.Args[4]
		}
		out, err := usecase.NewUserUseCase(repos.Users).Create(ctx, dto.CreateUserRequest{
			Email:    os.Args[2],
			Password: os.Args[3],
			Name:     name,
			Role:     entity.RoleAdmin,
		})
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			log.Warn().Str("email", os.Args[2]).Msg("el usuario ya existe, nada que hacer")
			return
		}
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador")
		}
		log.Info().Str("id", out.ID).Str("email", out.Email).Msg("administrador creado")
	case "import-items":
		if len(os.Args) < 3 {
			usage()
		}
		path := os.Args[2]
		f, err := os.Open(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("abrir planilla")
		}
		defer f.Close()
		rows, err := spreadsheet.ReadItems(f, filepath.Base(path))
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("leer planilla")
		}
		res, err := usecase.NewItemUseCase(repos.Items).Import(ctx, rows)
		if err != nil {
			log.Fatal().Err(err).Msg("importar ítems")
		}
		for _, is := range res.Issues {
			log.Warn().Int("line", is.Position).Str("code", is.Code).Msg(is.Reason)
		}
		log.Info().Int("created", res.Created).Int("updated", res.Updated).Int("issues", len(res.Issues)).Msg("importación terminada")
	default:
		usage()
	}
}
