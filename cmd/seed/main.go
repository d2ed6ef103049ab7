// Command seed prepares a database: it creates or resets the admin account
// and can fill the content tables with demo data.
package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/ministry-site/core/internal/config"
	"github.com/ministry-site/core/internal/database"
	"github.com/ministry-site/core/internal/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type globalOptions struct {
	Config  string `short:"c" long:"config" description:"Path to YAML config file"`
	EnvFile string `long:"env-file" default:".env" description:"Path to dotenv file"`
}

var (
	opts   globalOptions
	parser = flags.NewParser(&opts, flags.Default)
)

func main() {
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

// env is what every command needs: a config, a logger and a migrated
// database.
type env struct {
	cfg *config.AppConfig
	log *zap.Logger
	db  *gorm.DB
}

func open() (*env, error) {
	if err := config.LoadDotEnv(opts.EnvFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Options{Development: cfg.IsDev()})
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log.Named("Seed"), db: db}, nil
}

func (e *env) close() {
	_ = database.Close(e.db)
	_ = e.log.Sync()
}
