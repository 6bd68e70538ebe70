package utils

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes a TOML file over the values already in v.
func LoadTOMLFile(path string, v any) error {
	if _, err := toml.DecodeFile(path, v); err != nil {
		log.Warnf("TOML parsing error in %s: %v. Attempting partial recovery...", path, err)
		return err
	}
	return nil
}

// SaveTOMLFile writes v to path as TOML.
func SaveTOMLFile(v any, path string) error {
	file, err := os.Create(path)
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(v)
}

// ParseTOMLLoose decodes a TOML file into a generic map, for recovering the sections
// that still parse when the file does not fit the typed config.
func ParseTOMLLoose(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any)
	if _, err := toml.Decode(string(data), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Section returns the named table of a loosely parsed TOML document.
func Section(data map[string]any, name string) (map[string]any, bool) {
	section, ok := data[name].(map[string]any)
	return section, ok
}

// Int reads an integer key. TOML integers decode as int64.
func Int(data map[string]any, key string) (int, bool) {
	if val, ok := data[key].(int64); ok {
		return int(val), true
	}
	return 0, false
}

// String reads a string key.
func String(data map[string]any, key string) (string, bool) {
	val, ok := data[key].(string)
	return val, ok
}
