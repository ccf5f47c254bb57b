package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/MrPunder/grouppicker/internal/models"
)

// FileFetcher читает список групп из JSON-файла в формате API ({"data": [...]})
type FileFetcher struct {
	path string
}

func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{path: path}
}

func (f *FileFetcher) FetchGroups(ctx context.Context) ([]models.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read groups file: %w", err)
	}

	var list models.GroupList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal groups file: %w", err)
	}
	return list.Data, nil
}

// StaticFetcher отдает заранее заданный список
type StaticFetcher []models.Group

func (s StaticFetcher) FetchGroups(ctx context.Context) ([]models.Group, error) {
	return append([]models.Group(nil), s...), nil
}
