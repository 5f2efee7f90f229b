// Package config loads the sprite-index settings.
//
// Values come from an optional config.yaml, overridden by environment
// variables, which a .env file may seed. Every field declares its default
// through a `default` struct tag; nested sections map to underscore
// separated variables (SPRITE_FAMILY sets sprite.family, STORAGE_BUCKET
// sets storage.bucket).
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and request limits
//   - Storage: S3/MinIO credentials and the publish bucket
//   - Database: optional MySQL or SQLite snapshot store
//   - Log: logging level and format
//   - Sprite: dictionary, rules, naming family and output settings
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sprite.OutputDir)
package config
