package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"flightdesk/internal/domain"
	"flightdesk/internal/domain/models"
)

// DatasetSource loads the full flight dataset. Implementations must not cache:
// every call reads the backing store again.
type DatasetSource interface {
	Load(ctx context.Context) (models.Dataset, error)
	Name() string
}

// FileDatasetRepository reads a database.json document from disk.
type FileDatasetRepository struct {
	Path string
}

func (r FileDatasetRepository) Name() string { return "file:" + r.Path }

func (r FileDatasetRepository) Load(ctx context.Context) (models.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return models.Dataset{}, domain.LoadError{Source: r.Name(), Err: err}
	}
	raw, err := os.ReadFile(r.Path)
	if err != nil {
		return models.Dataset{}, domain.LoadError{Source: r.Name(), Err: err}
	}
	return decodeDataset(r.Name(), raw)
}

func decodeDataset(source string, raw []byte) (models.Dataset, error) {
	var ds models.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return models.Dataset{}, domain.LoadError{Source: source, Err: fmt.Errorf("decode json: %w", err)}
	}
	if ds.Data == nil {
		return models.Dataset{}, domain.LoadError{Source: source, Err: fmt.Errorf("missing data array")}
	}
	return ds, nil
}
