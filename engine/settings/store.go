package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML document of flat key/value pairs.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - *Settings: the decoded settings
//   - error: an error if the file could not be read or decoded
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses a YAML document of flat key/value pairs.
func Decode(data []byte) (*Settings, error) {
	raw := make(map[string]any)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	for k, v := range raw {
		switch v.(type) {
		case int, int64, float64, bool, string:
		default:
			return nil, fmt.Errorf("settings key %q: unsupported value %T", k, v)
		}
	}
	return FromMap(raw), nil
}

// Encode renders the explicit values of s as YAML. Defaults are not written.
func Encode(s *Settings) ([]byte, error) {
	data, err := yaml.Marshal(s.Values())
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return data, nil
}

// Save writes the explicit values of s to path as YAML.
//
// Parameters:
//   - s: the settings to write
//   - path: the destination file
//
// Returns:
//   - error: an error if encoding or writing failed
func Save(s *Settings, path string) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}
	return nil
}
