package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"actograph/internal/modules/workspace/domain"
	workspaceout "actograph/internal/modules/workspace/port/out"
)

// FileActivityCatalog stores the activity reference set as a YAML file.
// The default catalog is seeded to disk the first time it is loaded.
type FileActivityCatalog struct {
	path string
}

func NewFileActivityCatalog(path string) workspaceout.ActivityCatalog {
	return &FileActivityCatalog{path: path}
}

func (c *FileActivityCatalog) Load(ctx context.Context) ([]domain.Activity, error) {
	payload, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			defaults := domain.DefaultActivities()
			if err := c.Save(ctx, defaults); err != nil {
				return nil, err
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("read activity catalog: %w", err)
	}
	var activities []domain.Activity
	if err := yaml.Unmarshal(payload, &activities); err != nil {
		return nil, fmt.Errorf("decode activity catalog: %w", err)
	}
	return activities, nil
}

func (c *FileActivityCatalog) Save(_ context.Context, activities []domain.Activity) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	payload, err := yaml.Marshal(activities)
	if err != nil {
		return fmt.Errorf("marshal activity catalog: %w", err)
	}
	if err := os.WriteFile(c.path, payload, 0o644); err != nil {
		return fmt.Errorf("write activity catalog: %w", err)
	}
	return nil
}
