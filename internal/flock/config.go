package flock

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed params.schema.json
var paramsSchema []byte

// Params holds the simulation parameters. They are read-only during a run:
// validated once at construction, then passed by value into the core, never
// consulted as ambient shared state.
type Params struct {
	// Population size, fixed for the simulation's lifetime.
	NumAgents int `json:"numAgents"`

	// Half-width of the cubic domain: positions live in [-Boundary, Boundary]
	// per axis after the periodic wrap.
	Boundary float64 `json:"boundary"`

	// Distance threshold separating the "move apart" regime (closer than
	// this) from the "move closer" regime relative to the nearest neighbor.
	AvoidanceDistance float64 `json:"avoidanceDistance"`

	MaxVelocity     float64 `json:"maxVelocity"`
	MaxAcceleration float64 `json:"maxAcceleration"`

	// Integration step consumed by the host-side kinematics integrator.
	Dt float64 `json:"dt"`

	// Seed for the run's random source. Zero means "derive from entropy".
	Seed uint64 `json:"seed"`

	// Workers bounds the per-tick fan-out across agents. Zero or one means
	// fully sequential.
	Workers int `json:"workers"`
}

// DefaultParams returns a parameter set that produces a stable flock.
func DefaultParams() Params {
	return Params{
		NumAgents:         50,
		Boundary:          100,
		AvoidanceDistance: 25,
		MaxVelocity:       4,
		MaxAcceleration:   1,
		Dt:                1,
		Workers:           1,
	}
}

// Validate checks parameter ranges once at construction time.
// Out-of-range configuration is a caller error, never checked per tick.
func (p Params) Validate() error {
	if p.NumAgents < 1 {
		return fmt.Errorf("numAgents must be at least 1, got %d", p.NumAgents)
	}
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"boundary", p.Boundary},
		{"avoidanceDistance", p.AvoidanceDistance},
		{"maxVelocity", p.MaxVelocity},
		{"maxAcceleration", p.MaxAcceleration},
		{"dt", p.Dt},
	} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("%s must be finite, got %v", v.name, v.value)
		}
		if v.value < 0 {
			return fmt.Errorf("%s must be non-negative, got %v", v.name, v.value)
		}
	}
	if p.Boundary == 0 {
		return fmt.Errorf("boundary must be positive")
	}
	if p.Dt == 0 {
		return fmt.Errorf("dt must be positive")
	}
	if p.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", p.Workers)
	}
	return nil
}

// LoadParams loads parameters from a JSON file and validates them against the
// embedded schema before unmarshalling. Fields absent from the file keep their
// default values.
func LoadParams(configFile string) (Params, error) {
	cfg := DefaultParams()

	sch, err := jsonschema.CompileString("params.schema.json", string(paramsSchema))
	if err != nil {
		return cfg, fmt.Errorf("failed to compile params schema: %w", err)
	}

	b, err := os.ReadFile(configFile)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	var v interface{}
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&v); err != nil {
		return cfg, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
