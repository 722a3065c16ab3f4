package sync

// Config holds the default sync run settings.
type Config struct {
	// Prefix scopes the run to keys under this bucket prefix.
	Prefix string `mapstructure:"prefix" default:""`
	// Concurrency is the number of parallel uploads (1 = sequential).
	Concurrency int `mapstructure:"concurrency" default:"1"`
	// Prune permits deletion of remote keys absent from the local manifest.
	Prune bool `mapstructure:"prune" default:"false"`
	// DryRun suppresses all mutations while reporting as if they ran.
	DryRun bool `mapstructure:"dry_run" default:"false"`
	// HashAlgorithm selects the local content hash (md5, sha256 or blake3).
	// md5 is the only choice whose fingerprints match single-part ETags;
	// the others require a custom comparison strategy.
	HashAlgorithm string `mapstructure:"hash_algorithm" default:"md5"`
}
