package recordstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/contacthub/internal/models"
)

// LoadSeed reads a list of store records from a JSON or YAML file. The
// format is chosen by extension; anything but .yaml/.yml is parsed as JSON.
func LoadSeed(path string) ([]models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("recordstore: read seed %s: %w", path, err)
	}
	var records []models.Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("recordstore: parse seed %s: %w", path, err)
	}
	return records, nil
}
