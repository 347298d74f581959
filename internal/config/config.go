// Package config loads the YAML job files run by the command line tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// ErrNoInput is returned when a job names no input file.
var ErrNoInput = errors.New("config: no input file")

// Step is one filter or adjustment applied to the image, in file order.
type Step struct {
	Name   string  `yaml:"name"`
	Method string  `yaml:"method,omitempty"` // brightness: add | multiply
	Factor float64 `yaml:"factor,omitempty"` // brightness, contrast
	Expr   string  `yaml:"expr,omitempty"`   // expr: expression of c
	Rect   []int   `yaml:"rect,omitempty"`   // crop: x, y, width, height
	Size   []int   `yaml:"size,omitempty"`   // scale: width, height
	Kernel string  `yaml:"kernel,omitempty"` // scale: nearest | bilinear | catmullrom
}

// Job describes one load, transform and save run.
type Job struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output,omitempty"`
	Print    bool   `yaml:"print,omitempty"`
	Metadata bool   `yaml:"metadata,omitempty"`
	Steps    []Step `yaml:"filters,omitempty"`
}

// Steps without parameters or whose parameters have defaults.
var simpleSteps = map[string]bool{
	"invert":          true,
	"grayscale":       true,
	"grayscale-luma":  true,
	"flip-vertical":   true,
	"flip-horizontal": true,
	"red":             true,
	"green":           true,
	"blue":            true,
}

// Load reads and validates the job file at path.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file '%s': %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML job.
func Parse(data []byte) (*Job, error) {
	var job Job
	if err := yaml.UnmarshalStrict(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job: %w", err)
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &job, nil
}

// ParseSteps turns a comma separated list of step names (the -filter flag)
// into steps with default parameters.
func ParseSteps(list string) ([]Step, error) {
	var steps []Step
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !simpleSteps[name] {
			return nil, fmt.Errorf("step %q needs parameters, use a job file", name)
		}
		steps = append(steps, Step{Name: name})
	}
	return steps, nil
}

// Validate checks that the job has an input and that every step is known
// and carries the parameters it needs.
func (j *Job) Validate() error {
	if j.Input == "" {
		return ErrNoInput
	}
	for i, s := range j.Steps {
		if err := s.validate(); err != nil {
			return fmt.Errorf("filters[%d]: %w", i, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	if simpleSteps[s.Name] {
		return nil
	}

	switch s.Name {
	case "brightness":
		if s.Method != "add" && s.Method != "multiply" {
			return fmt.Errorf("brightness: method must be add or multiply, got %q", s.Method)
		}
	case "contrast":
		if s.Factor < 0 {
			return fmt.Errorf("contrast: factor must not be negative, got %v", s.Factor)
		}
	case "expr":
		if s.Expr == "" {
			return errors.New("expr: missing expression")
		}
	case "crop":
		if len(s.Rect) != 4 {
			return fmt.Errorf("crop: rect needs 4 values (x, y, width, height), got %d", len(s.Rect))
		}
	case "scale":
		if len(s.Size) != 2 {
			return fmt.Errorf("scale: size needs 2 values (width, height), got %d", len(s.Size))
		}
	case "":
		return errors.New("missing step name")
	default:
		return fmt.Errorf("unknown step %q", s.Name)
	}
	return nil
}
