// cmd/migrate/main.go: applies or rolls back the SQL migrations.
// Uso: go run ./cmd/migrate [up|down|steps N|version|force V]
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gamblerpro/internal/config"
	"gamblerpro/internal/infra"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}
	defer sqlDB.Close()

	mg, err := infra.NewMigrator(sqlDB, cfg.MigrationsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init migrator")
	}
	defer mg.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		err = mg.Up()
	case "down":
		err = mg.Down()
	case "steps":
		err = mg.Steps(argInt())
	case "force":
		err = mg.Force(argInt())
	case "version":
		v, dirty, verr := mg.Version()
		if verr == nil {
			fmt.Printf("version=%d dirty=%t\n", v, dirty)
		}
		err = verr
	default:
		log.Fatal().Str("cmd", cmd).Msg("comando desconocido (up|down|steps N|version|force V)")
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("migration failed")
	}
}

func argInt() int {
	if len(os.Args) < 3 {
		log.Fatal().Msg("falta el argumento numerico")
	}
	n, err := strconv.Atoi(os.Args[2])
	if err != nil {
		log.Fatal().Err(err).Msg("argumento numerico invalido")
	}
	return n
}
