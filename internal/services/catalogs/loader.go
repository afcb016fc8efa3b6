package catalogs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/models"
)

// catalogFile is the on-disk shape of one catalog TOML file.
//
//	step = "topics"
//	[[entries]]
//	id = "top_food"
//	name = "Food & Drink"
//	slug = "food-drink"
type catalogFile struct {
	Step    string                `toml:"step"`
	Entries []models.CatalogEntry `toml:"entries"`
}

// FileProvider serves catalog snapshots from a directory of TOML files
// (<dir>/<step>.toml). Files are re-read per request so edits show up
// without a restart, matching the no-caching contract of the resolver.
type FileProvider struct {
	dir    string
	logger arbor.ILogger
}

// NewFileProvider creates a file-backed catalog provider.
func NewFileProvider(dir string, logger arbor.ILogger) *FileProvider {
	return &FileProvider{dir: dir, logger: logger}
}

// Snapshot reads the catalog file for the named step.
func (p *FileProvider) Snapshot(ctx context.Context, step string) (*models.CatalogSnapshot, error) {
	if strings.ContainsAny(step, `/\.`) {
		return nil, fmt.Errorf("invalid catalog step name: %s", step)
	}

	path := filepath.Join(p.dir, step+".toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	if file.Step != "" && file.Step != step {
		return nil, fmt.Errorf("catalog file %s declares step %q, expected %q", path, file.Step, step)
	}

	valid := make([]models.CatalogEntry, 0, len(file.Entries))
	for _, entry := range file.Entries {
		if entry.ID == "" || entry.Name == "" {
			p.logger.Warn().
				Str("file", path).
				Str("name", entry.Name).
				Msg("Skipping catalog entry without id or name")
			continue
		}
		valid = append(valid, entry)
	}

	p.logger.Debug().
		Str("step", step).
		Int("entries", len(valid)).
		Msg("Catalog snapshot loaded from file")

	return &models.CatalogSnapshot{Step: step, Entries: valid}, nil
}
