package sprite

// Config holds the sprite pipeline settings.
type Config struct {
	// SymbolsPath is the YAML/JSON dictionary resolving protocol enum names.
	SymbolsPath string `mapstructure:"symbols_path" default:"symbols.yaml"`
	// RulesPath overrides the embedded rule set when set.
	RulesPath string `mapstructure:"rules_path" default:""`
	// GameMasterPath is a local game master file. When empty the game master
	// is read from GameMasterObject in the storage bucket.
	GameMasterPath string `mapstructure:"game_master_path" default:""`
	// GameMasterObject is the bucket object holding the game master.
	GameMasterObject string `mapstructure:"game_master_object" default:"game_master.json"`
	// InputDir holds the observed assets.
	InputDir string `mapstructure:"input_dir" default:"input"`
	// OutputDir receives the converted sprites and index.json.
	OutputDir string `mapstructure:"output_dir" default:"output"`
	// Family is the asset naming grammar: legacy or addressable.
	Family string `mapstructure:"family" default:"legacy"`
	// Convention is the output naming convention: hyphen or addressable.
	Convention string `mapstructure:"convention" default:"hyphen"`
	// Prefix is stripped from legacy asset filenames.
	Prefix string `mapstructure:"prefix" default:"pokemon_icon_"`
	// Extension is the asset file extension.
	Extension string `mapstructure:"extension" default:".png"`
	// ConvertBinary is the image tool invoked to trim sprites.
	ConvertBinary string `mapstructure:"convert_binary" default:"convert"`
	// Fuzz is the trim tolerance passed to the image tool.
	Fuzz string `mapstructure:"fuzz" default:"1%"`
	// Workers bounds concurrent conversions and uploads.
	Workers int `mapstructure:"workers" default:"4"`
	// SnapshotPath is where the table snapshot is written and reused from.
	SnapshotPath string `mapstructure:"snapshot_path" default:"table.json"`
	// PublishPrefix is the object name prefix of published sprites.
	PublishPrefix string `mapstructure:"publish_prefix" default:""`
	// ResolveCacheSize bounds the resolve endpoint cache.
	ResolveCacheSize int `mapstructure:"resolve_cache_size" default:"1024"`
	// CacheTTLSeconds is the reconcile cache lifetime of the publish flow.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"60"`
}
