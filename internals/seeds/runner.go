// Package seeds loads the demo dataset used by fresh installs and local development.
package seeds

import (
	"context"
	_ "embed"

	"github.com/bytedance/sonic"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
)

//go:embed data/seed.json
var seedData []byte

type Dataset struct {
	Admin        AdminSeed         `json:"admin"`
	Subjects     []SubjectSeed     `json:"subjects"`
	Classes      []ClassSeed       `json:"classes"`
	Applications []ApplicationSeed `json:"applications"`
}

func LoadDataset() (Dataset, error) {
	var ds Dataset
	if err := sonic.Unmarshal(seedData, &ds); err != nil {
		return ds, pkgErrors.Wrap(err, "decode seed data")
	}
	return ds, nil
}

// RunAllSeeds inserts every missing seed row. Existing rows are left untouched.
func RunAllSeeds(ctx context.Context, db *gorm.DB) error {
	log := configs.Logger("seeds")

	ds, err := LoadDataset()
	if err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func(context.Context, *gorm.DB, Dataset) (int, error)
	}{
		{"admin", seedAdmin},
		{"subjects", seedSubjects},
		{"classes", seedClasses},
		{"applications", seedApplications},
	}
	for _, s := range steps {
		n, err := s.run(ctx, db, ds)
		if err != nil {
			return pkgErrors.Wrapf(err, "seed %s", s.name)
		}
		log.Info().Str("step", s.name).Int("inserted", n).Msg("seeded")
	}
	return nil
}
