// Package samples loads the fixed sample requests used for manual quality
// review and the role model seed files used to populate a store.
package samples

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lightwalker/dailydo/internal/types"
)

//go:embed samples.yaml
var defaultSamples []byte

// SampleSet is a list of enhancement requests to run without persisting
type SampleSet struct {
	Requests []types.EnhancementRequest `yaml:"requests"`
}

// Default returns the embedded sample set
func Default() (*SampleSet, error) {
	return ParseSampleSet(defaultSamples)
}

// LoadSampleSet reads a sample set from a YAML file
func LoadSampleSet(path string) (*SampleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Message: "failed to read sample file", Cause: err}
	}
	set, err := ParseSampleSet(data)
	if err != nil {
		return nil, &FileError{Path: path, Message: "invalid sample file", Cause: err}
	}
	return set, nil
}

// ParseSampleSet decodes YAML, fills missing user context fields with the
// product defaults and validates every request
func ParseSampleSet(data []byte) (*SampleSet, error) {
	var set SampleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse sample YAML: %w", err)
	}
	if len(set.Requests) == 0 {
		return nil, fmt.Errorf("sample set has no requests")
	}

	validate := validator.New()
	def := types.DefaultContext()
	for i := range set.Requests {
		req := &set.Requests[i]
		if req.UserLevel == "" {
			req.UserLevel = def.UserLevel
		}
		if req.AvailableTime == "" {
			req.AvailableTime = def.AvailableTime
		}
		if req.PreferredStyle == "" {
			req.PreferredStyle = def.PreferredStyle
		}
		if err := validate.Struct(req); err != nil {
			return nil, fmt.Errorf("request %d (%s / %s): %w", i+1, req.RoleModelName, req.AttributeName, err)
		}
	}
	return &set, nil
}

// SeedRoleModel is one role model of a seed file
type SeedRoleModel struct {
	ID         string                  `yaml:"id" validate:"required"`
	Name       string                  `yaml:"name" validate:"required"`
	Active     *bool                   `yaml:"active"`
	Attributes []types.SourceAttribute `yaml:"attributes" validate:"required,min=1,dive"`
}

// SeedFile lists role models to insert or update
type SeedFile struct {
	RoleModels []SeedRoleModel `yaml:"role_models" validate:"required,min=1,dive"`
}

// LoadSeedFile reads and validates a role model seed file
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Message: "failed to read seed file", Cause: err}
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, &FileError{Path: path, Message: "failed to parse seed YAML", Cause: err}
	}
	if err := validator.New().Struct(&seed); err != nil {
		return nil, &FileError{Path: path, Message: "invalid seed file", Cause: err}
	}

	seen := make(map[string]bool, len(seed.RoleModels))
	for _, rm := range seed.RoleModels {
		id := strings.TrimSpace(rm.ID)
		if seen[id] {
			return nil, &FileError{Path: path, Message: fmt.Sprintf("duplicate role model id %q", id)}
		}
		seen[id] = true
	}
	return &seed, nil
}

// Records converts the seed into store records. Source attributes are stored
// as a JSON-encoded string; a missing active flag means active.
func (s *SeedFile) Records() ([]types.RoleModelRecord, error) {
	records := make([]types.RoleModelRecord, 0, len(s.RoleModels))
	for _, rm := range s.RoleModels {
		encoded, err := json.Marshal(rm.Attributes)
		if err != nil {
			return nil, fmt.Errorf("failed to encode attributes of %s: %w", rm.ID, err)
		}
		active := true
		if rm.Active != nil {
			active = *rm.Active
		}
		records = append(records, types.RoleModelRecord{
			ID:               strings.TrimSpace(rm.ID),
			Name:             strings.TrimSpace(rm.Name),
			SourceAttributes: string(encoded),
			IsActive:         active,
		})
	}
	return records, nil
}
