// runspirectl runs schema and account maintenance against the Runspire database.
//
// Usage:
//
//	go run ./cmd/runspirectl init
//	go run ./cmd/runspirectl add-admin --username coach --password secret
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/NissBloom/runspire/config"
	"github.com/NissBloom/runspire/db"
	applog "github.com/NissBloom/runspire/logger"
	"github.com/NissBloom/runspire/store"
)

var CLI struct {
	Debug bool `help:"Log every SQL statement." env:"DEBUG"`

	Init          InitCmd          `cmd:"" help:"Create missing tables and columns. Never drops anything."`
	MigrateLegacy MigrateLegacyCmd `cmd:"" help:"Attach legacy rows to trainees and drop the old name/email columns."`
	Reset         ResetCmd         `cmd:"" help:"Drop and recreate all data tables (needs ALLOW_DB_RESET, refused in production)."`
	Check         CheckCmd         `cmd:"" help:"Show the connected database and schema version." default:"1"`
	AddAdmin      AddAdminCmd      `cmd:"" help:"Create an admin account or replace its password."`
	SeedDemo      SeedDemoCmd      `cmd:"" help:"Insert the example testimonials."`
	RemoveDemo    RemoveDemoCmd    `cmd:"" help:"Delete the example testimonials and their trainees."`
}

// appContext is shared by every command.
type appContext struct {
	ctx    context.Context
	cfg    *config.Config
	log    *zap.Logger
	schema *db.Manager
	store  *store.Store
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("runspirectl"),
		kong.Description("Runspire database maintenance"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	cfg := config.Load()
	cfg.Debug = cfg.Debug || CLI.Debug

	logger, err := applog.New(applog.Options{Debug: cfg.Debug, File: cfg.LogFile, MaxSizeMB: cfg.LogMaxSizeMB, MaxBackups: cfg.LogMaxBackups})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bdb, err := db.Setup(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer bdb.Close()

	schema := db.NewManager(bdb, logger)
	app := &appContext{
		ctx:    ctx,
		cfg:    cfg,
		log:    logger,
		schema: schema,
		store:  store.New(schema, logger),
	}

	if err := kctx.Run(app); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
