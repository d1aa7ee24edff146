package benchmarking

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSizes are the element counts measured when a plan names none.
var DefaultSizes = []int{8, 64, 512, 4096, 8192}

// DefaultBenchTime is how long each case runs when a plan names no time.
const DefaultBenchTime = 200 * time.Millisecond

// A Plan selects the cases of a run.
type Plan struct {
	Workloads  []Workload    `yaml:"workloads"`
	Containers []Container   `yaml:"containers"`
	Sizes      []int         `yaml:"sizes"`
	BenchTime  time.Duration `yaml:"benchtime"`
}

// DefaultPlan measures every workload on every container at DefaultSizes.
func DefaultPlan() Plan {
	return Plan{
		Workloads:  slices.Clone(AllWorkloads),
		Containers: slices.Clone(AllContainers),
		Sizes:      slices.Clone(DefaultSizes),
		BenchTime:  DefaultBenchTime,
	}
}

// LoadPlan reads a plan from a YAML file. Fields missing from the file keep
// their DefaultPlan values. Unknown fields are rejected.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to read plan file: %w", err)
	}

	return ParsePlan(data)
}

// ParsePlan decodes a YAML plan. See LoadPlan.
func ParsePlan(data []byte) (Plan, error) {
	plan := DefaultPlan()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	err := decoder.Decode(&plan)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	err = plan.Validate()
	if err != nil {
		return Plan{}, fmt.Errorf("invalid plan: %w", err)
	}

	return plan, nil
}

// Validate checks that the plan names known workloads and containers and
// positive sizes.
func (p Plan) Validate() error {
	if len(p.Workloads) == 0 {
		return errors.New("workloads list must be non-empty")
	}

	for _, w := range p.Workloads {
		if workloadIndex(w) < 0 {
			return fmt.Errorf("unknown workload %q", w)
		}
	}

	if len(p.Containers) == 0 {
		return errors.New("containers list must be non-empty")
	}

	for _, c := range p.Containers {
		if containerIndex(c) < 0 {
			return fmt.Errorf("unknown container %q", c)
		}
	}

	if len(p.Sizes) == 0 {
		return errors.New("sizes list must be non-empty")
	}

	for _, s := range p.Sizes {
		if s <= 0 {
			return fmt.Errorf("invalid size %d", s)
		}
	}

	if p.BenchTime <= 0 {
		return fmt.Errorf("invalid bench time %s", p.BenchTime)
	}

	return nil
}

// Cases expands the plan, workload-major and container-minor.
func (p Plan) Cases() []Case {
	cases := make([]Case, 0,
		len(p.Workloads)*len(p.Sizes)*len(p.Containers))

	for _, w := range p.Workloads {
		for _, s := range p.Sizes {
			for _, c := range p.Containers {
				cases = append(cases, Case{
					Workload:  w,
					Container: c,
					Size:      s,
				})
			}
		}
	}

	return cases
}
