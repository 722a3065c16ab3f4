// Package config provides configuration management for s3-deploy.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file, with defaults taken from struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all settings, divided
// into subsections:
//   - Storage: S3/MinIO credentials, endpoint, and bucket
//   - Log: Logging level and format
//   - Sync: Default run settings (prefix, concurrency, prune, dry-run)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Bucket)
package config
