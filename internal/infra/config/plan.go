package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Plan is a playlist build described in a YAML file:
//
//	name: Friday Mix
//	artists:
//	  - name: Radiohead
//	    count: 3
//	  - name: Daft Punk
type Plan struct {
	Name    string       `yaml:"name"`
	Artists []PlanArtist `yaml:"artists" validate:"dive"`
}

// PlanArtist is one artist entry of a Plan.
type PlanArtist struct {
	Name  string `yaml:"name" validate:"required"`
	Count int    `yaml:"count" validate:"gte=1,lte=10"`
}

// LoadPlan loads a build plan. Entries without a count get defaultCount.
// The playlist name and artist list may be empty here; the builder reports those.
func LoadPlan(path string, defaultCount int) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read plan file")
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, errors.Wrap(err, "failed to parse plan file")
	}

	for i := range plan.Artists {
		if plan.Artists[i].Count == 0 {
			plan.Artists[i].Count = defaultCount
		}
	}

	if err := validator.New().Struct(plan); err != nil {
		return nil, errors.Wrap(err, "plan validation failed")
	}

	return &plan, nil
}
