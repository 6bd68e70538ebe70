/*
Package config manages the TOML config for TileServe.

Values come from built-in defaults, then the config file, then TILESERVE_* environment
variables.
*/
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bastiangx/tileserve/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/ilyakaznacheev/cleanenv"
)

// FileName is the config file looked up in the config directory.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	Search SearchConfig `toml:"search"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxLimit       int `toml:"max_limit"        env:"TILESERVE_MAX_LIMIT" env-upd:""        env-description:"Most entries returned per request"`
	MaxQueryLength int `toml:"max_query_length" env:"TILESERVE_MAX_QUERY_LENGTH" env-upd:"" env-description:"Longest accepted query in characters"`
}

// DictConfig holds dictionary locations and load options.
type DictConfig struct {
	Dir                string `toml:"dir"                  env:"TILESERVE_DICT_DIR" env-upd:""    env-description:"Directory with .txt and dict_*.bin word lists"`
	Snapshot           string `toml:"snapshot"             env:"TILESERVE_SNAPSHOT" env-upd:""    env-description:"Lexicon snapshot read instead of the word lists when present"`
	FallbackDB         string `toml:"fallback_db"          env:"TILESERVE_FALLBACK_DB" env-upd:"" env-description:"SQLite word store used while the lexicon loads; empty disables it"`
	MaxWordsValidation int    `toml:"max_words_validation" env:"TILESERVE_MAX_WORDS" env-upd:""   env-description:"Largest word count a chunk header may declare"`
	LoadRetries        int    `toml:"load_retries"         env:"TILESERVE_LOAD_RETRIES" env-upd:"" env-description:"Extra attempts after a failed lexicon load"`
}

// SearchConfig tunes the query engine.
type SearchConfig struct {
	MinSubsetLength int `toml:"min_subset_length" env:"TILESERVE_MIN_SUBSET_LENGTH" env-upd:"" env-description:"Shortest word reported by sub-rack search"`
	MaxBlanks       int `toml:"max_blanks"        env:"TILESERVE_MAX_BLANKS" env-upd:""        env-description:"Most blanks in a blank query (at most 2)"`
	MaxRack         int `toml:"max_rack"          env:"TILESERVE_MAX_RACK" env-upd:""          env-description:"Longest rack accepted by sub-rack search"`
	CacheSize       int `toml:"cache_size"        env:"TILESERVE_CACHE_SIZE" env-upd:""        env-description:"Pattern results kept in memory; 0 disables the cache"`
	Suggestions     int `toml:"suggestions"       env:"TILESERVE_SUGGESTIONS" env-upd:""       env-description:"Spelling suggestions per rejected word"`
}

// CliConfig holds interactive CLI options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit" env:"TILESERVE_CLI_LIMIT" env-upd:"" env-description:"Entries printed per query in the CLI"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:       200,
			MaxQueryLength: 64,
		},
		Dict: DictConfig{
			Dir:                "data",
			Snapshot:           filepath.Join("data", "lexicon.msgpack"),
			FallbackDB:         filepath.Join("data", "words.db"),
			MaxWordsValidation: 1000000,
			LoadRetries:        2,
		},
		Search: SearchConfig{
			MinSubsetLength: 2,
			MaxBlanks:       2,
			MaxRack:         15,
			CacheSize:       256,
			Suggestions:     3,
		},
		CLI: CliConfig{
			DefaultLimit: 24,
		},
	}
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(c.Server.MaxLimit > 0, "server.max_limit must be > 0 (got %d)", c.Server.MaxLimit)
	check(c.Server.MaxQueryLength > 0, "server.max_query_length must be > 0 (got %d)", c.Server.MaxQueryLength)
	check(c.Dict.Dir != "", "dict.dir must be set")
	check(c.Dict.MaxWordsValidation > 0, "dict.max_words_validation must be > 0 (got %d)", c.Dict.MaxWordsValidation)
	check(c.Dict.LoadRetries >= 0, "dict.load_retries must be >= 0 (got %d)", c.Dict.LoadRetries)
	check(c.Search.MinSubsetLength >= 1, "search.min_subset_length must be >= 1 (got %d)", c.Search.MinSubsetLength)
	check(c.Search.MaxBlanks >= 0 && c.Search.MaxBlanks <= 2, "search.max_blanks must be in [0, 2] (got %d)", c.Search.MaxBlanks)
	check(c.Search.MaxRack > 0, "search.max_rack must be > 0 (got %d)", c.Search.MaxRack)
	check(c.Search.CacheSize >= 0, "search.cache_size must be >= 0 (got %d)", c.Search.CacheSize)
	check(c.Search.Suggestions >= 0, "search.suggestions must be >= 0 (got %d)", c.Search.Suggestions)
	check(c.CLI.DefaultLimit > 0, "cli.default_limit must be > 0 (got %d)", c.CLI.DefaultLimit)
	return errors.Join(errs...)
}

// ApplyEnv overrides fields whose TILESERVE_* variable is set.
func (c *Config) ApplyEnv() error {
	if err := cleanenv.UpdateEnv(c); err != nil {
		return fmt.Errorf("config: read env: %w", err)
	}
	return nil
}

// EnvUsage describes the environment variables the config reads.
func EnvUsage() string {
	text, err := cleanenv.GetDescription(DefaultConfig(), nil)
	if err != nil {
		return err.Error()
	}
	return text
}

// DefaultPath returns the config file path inside the resolved config directory.
func DefaultPath(pr *utils.PathResolver) string {
	return filepath.Join(pr.ConfigDir(), FileName)
}

// LoadWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [ConfigDir]/tileserve/config.toml, created when missing
// 3. Builtin defaults
//
// Environment overrides are applied last and the result is validated.
// It returns the path the config came from, empty for builtin defaults.
func LoadWithPriority(customPath string, pr *utils.PathResolver) (*Config, string, error) {
	cfg, path := loadFile(customPath, pr)
	if err := cfg.ApplyEnv(); err != nil {
		return nil, path, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, path, nil
}

func loadFile(customPath string, pr *utils.PathResolver) (*Config, string) {
	if customPath != "" {
		if utils.FileExists(customPath) {
			cfg, err := Load(customPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customPath)
				return cfg, customPath
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customPath)
		}
	}
	if pr == nil {
		return DefaultConfig(), ""
	}

	defaultPath := DefaultPath(pr)
	cfg, err := Init(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), ""
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return cfg, defaultPath
}

// Init loads path, writing the defaults there first when the file is missing.
func Init(path string) (*Config, error) {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	if !utils.FileExists(path) {
		cfg := DefaultConfig()
		if err := Save(cfg, path); err != nil {
			return nil, err
		}
		log.Debugf("Created default config file at: %s", path)
		return cfg, nil
	}
	return Load(path)
}

// Load reads a TOML file over the defaults. When the file does not decode as a whole,
// the keys that still parse are kept.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := utils.LoadTOMLFile(path, cfg); err != nil {
		return recoverPartial(path)
	}
	return cfg, nil
}

// recoverPartial keeps every well-typed key of a config file that failed to decode.
func recoverPartial(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := utils.ParseTOMLLoose(path)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", path, err)
		return cfg, nil
	}

	if s, ok := utils.Section(data, "server"); ok {
		setInt(s, "max_limit", &cfg.Server.MaxLimit)
		setInt(s, "max_query_length", &cfg.Server.MaxQueryLength)
	}
	if s, ok := utils.Section(data, "dict"); ok {
		setString(s, "dir", &cfg.Dict.Dir)
		setString(s, "snapshot", &cfg.Dict.Snapshot)
		setString(s, "fallback_db", &cfg.Dict.FallbackDB)
		setInt(s, "max_words_validation", &cfg.Dict.MaxWordsValidation)
		setInt(s, "load_retries", &cfg.Dict.LoadRetries)
	}
	if s, ok := utils.Section(data, "search"); ok {
		setInt(s, "min_subset_length", &cfg.Search.MinSubsetLength)
		setInt(s, "max_blanks", &cfg.Search.MaxBlanks)
		setInt(s, "max_rack", &cfg.Search.MaxRack)
		setInt(s, "cache_size", &cfg.Search.CacheSize)
		setInt(s, "suggestions", &cfg.Search.Suggestions)
	}
	if s, ok := utils.Section(data, "cli"); ok {
		setInt(s, "default_limit", &cfg.CLI.DefaultLimit)
	}
	return cfg, nil
}

func setInt(section map[string]any, key string, dst *int) {
	if v, ok := utils.Int(section, key); ok {
		*dst = v
	}
}

func setString(section map[string]any, key string, dst *string) {
	if v, ok := utils.String(section, key); ok {
		*dst = v
	}
}

// Save writes cfg to path as TOML.
func Save(cfg *Config, path string) error {
	return utils.SaveTOMLFile(cfg, path)
}

// Rebuild overwrites path with the default config.
func Rebuild(path string) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return Save(DefaultConfig(), path)
}
