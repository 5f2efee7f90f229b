// Package database handles database connections and schema inspection.
//
// It wraps GORM so that MySQL (production) and SQLite (tests, local runs)
// connections are configured the same way from the application's config.
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and pings the
// database within the configured timeout.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live schema so stores can
// verify that their tables match the models they persist.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "sprite_entries", []string{"entry_key"})
package database
