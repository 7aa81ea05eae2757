package main

import (
	"errors"
	"fmt"

	"github.com/NissBloom/runspire/db"
)

type InitCmd struct{}

func (c *InitCmd) Run(app *appContext) error {
	if err := app.schema.Initialize(app.ctx); err != nil {
		return err
	}
	fmt.Printf("schema initialized at version %d\n", db.CurrentSchemaVersion)
	return nil
}

type MigrateLegacyCmd struct {
	Entity string `help:"Only migrate this table (testimonials, training_plans, coaching_requests)."`
}

func (c *MigrateLegacyCmd) Run(app *appContext) error {
	var (
		reports []db.MigrationReport
		err     error
	)
	if c.Entity == "" {
		reports, err = app.schema.MigrateAllLegacyRows(app.ctx)
	} else {
		var e db.Entity
		if e, err = db.ParseEntity(c.Entity); err != nil {
			return err
		}
		var r db.MigrationReport
		r, err = app.schema.MigrateLegacyRows(app.ctx, e)
		reports = append(reports, r)
	}
	for _, r := range reports {
		printReport(r)
	}
	return err
}

func printReport(r db.MigrationReport) {
	switch {
	case !r.TableFound:
		fmt.Printf("%-18s no table\n", r.Entity)
	case !r.HadLegacyColumns:
		fmt.Printf("%-18s already migrated\n", r.Entity)
	default:
		fmt.Printf("%-18s backfilled=%d trainees_created=%d unresolved=%d fk_added=%t legacy_dropped=%t\n",
			r.Entity, r.Backfilled, r.TraineesCreated, r.Unresolved, r.AddedForeignKey, r.DroppedLegacyColumns)
	}
}

type ResetCmd struct {
	Yes bool `help:"Confirm that every trainee, testimonial, plan and request will be deleted."`
}

func (c *ResetCmd) Run(app *appContext) error {
	err := app.schema.ResetAll(app.ctx, app.cfg.AllowDBReset && c.Yes, app.cfg.IsProduction())
	if errors.Is(err, db.ErrResetNotAllowed) && !c.Yes {
		return fmt.Errorf("%w (and pass --yes)", err)
	}
	if err != nil {
		return err
	}
	fmt.Println("database reset")
	return nil
}

type CheckCmd struct{}

func (c *CheckCmd) Run(app *appContext) error {
	status, err := app.schema.VerifyConnection(app.ctx)
	if err != nil {
		return err
	}
	version, err := app.schema.SchemaVersion(app.ctx)
	if err != nil {
		return err
	}
	fmt.Printf("database=%s schema_version=%d (expected %d)\n", status.Database, version, db.CurrentSchemaVersion)
	return nil
}

type AddAdminCmd struct {
	Username string `required:"" help:"Admin username."`
	Password string `required:"" help:"Plain-text password; stored as a bcrypt hash."`
}

func (c *AddAdminCmd) Run(app *appContext) error {
	if err := app.store.SaveAdmin(app.ctx, c.Username, c.Password); err != nil {
		return err
	}
	fmt.Printf("admin %q saved\n", c.Username)
	return nil
}

type SeedDemoCmd struct{}

func (c *SeedDemoCmd) Run(app *appContext) error {
	n, err := app.store.SeedDemoTestimonials(app.ctx)
	if err != nil {
		return err
	}
	fmt.Printf("added %d demo testimonials\n", n)
	return nil
}

type RemoveDemoCmd struct{}

func (c *RemoveDemoCmd) Run(app *appContext) error {
	n, err := app.store.RemoveDemoTestimonials(app.ctx)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d demo trainees and their testimonials\n", n)
	return nil
}
