// Package automation runs scripted headless simulations: yaml-driven
// scenarios, single-parameter sweeps, and Monte Carlo batches over
// randomized spawns.
package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fluidlab/internal/compute"
	"github.com/san-kum/fluidlab/internal/config"
	"github.com/san-kum/fluidlab/internal/metrics"
	"github.com/san-kum/fluidlab/internal/solver"
	"github.com/san-kum/fluidlab/internal/storage"
)

const defaultFrameDt = 1.0 / 60.0

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single headless run within a scenario.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Duration float32            `yaml:"duration"`
	FrameDt  float32            `yaml:"frame_dt"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

func buildConfig(preset string, params map[string]float64) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
	}
	for k, v := range params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// buildRunner makes a fresh solver with the standard metric set from a
// preset name plus parameter overrides.
func buildRunner(preset string, params map[string]float64, backend compute.Backend) (*solver.Runner, error) {
	cfg, err := buildConfig(preset, params)
	if err != nil {
		return nil, err
	}
	return buildRunnerFromConfig(cfg, backend)
}

// RunScenario executes all steps in a scenario. Steps with save_as set
// are recorded to the store under that name.
func RunScenario(ctx context.Context, scenario *Scenario, backend compute.Backend, store *storage.Store) ([]*solver.Result, error) {
	results := make([]*solver.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Preset
		if name == "" {
			name = "default"
		}
		fmt.Printf("Running step %d/%d: %s\n", i+1, len(scenario.Steps), name)

		frameDt := step.FrameDt
		if frameDt <= 0 {
			frameDt = defaultFrameDt
		}

		runner, err := buildRunner(step.Preset, step.Params, backend)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := runner.Run(ctx, step.Duration, frameDt)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, result)

		if step.SaveAs != "" && store != nil {
			_, err := store.Save(step.SaveAs, runner.Solver().N(),
				float64(frameDt), float64(step.Duration), backend.Name(), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
	}

	return results, nil
}

// ParameterSweep runs simulations across a range of parameter values
type ParameterSweep struct {
	Preset    string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Duration  float32
	FrameDt   float32
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue   float64
	FinalMetrics map[string]float64
	MaxEnergy    float64
	MinEnergy    float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, backend compute.Backend) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}

	frameDt := sweep.FrameDt
	if frameDt <= 0 {
		frameDt = defaultFrameDt
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		runner, err := buildRunner(sweep.Preset, map[string]float64{sweep.ParamName: paramVal}, backend)
		if err != nil {
			return nil, err
		}

		result, err := runner.Run(ctx, sweep.Duration, frameDt)
		if err != nil {
			return nil, err
		}

		var maxE, minE float64
		if series := result.Series["kinetic_energy"]; len(series) > 0 {
			maxE, minE = series[0], series[0]
			for _, e := range series {
				if e > maxE {
					maxE = e
				}
				if e < minE {
					minE = e
				}
			}
		}

		results = append(results, SweepResult{
			ParamValue:   paramVal,
			FinalMetrics: result.Metrics,
			MaxEnergy:    maxE,
			MinEnergy:    minE,
		})

		fmt.Printf("Sweep %d/%d: %s=%.4f\n", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Preset       string
	Perturbation float64 // extra spawn jitter per trial
	NumTrials    int
	Duration     float32
	FrameDt      float32
	Seed         int64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID      int
	SpawnSeed    int64
	FinalMetrics map[string]float64
	Stable       bool // Did the fluid remain bounded and finite?
}

// RunMonteCarlo executes multiple trials with randomized spawns
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, backend compute.Backend) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	frameDt := cfg.FrameDt
	if frameDt <= 0 {
		frameDt = defaultFrameDt
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	for trial := 0; trial < cfg.NumTrials; trial++ {
		c, err := buildConfig(cfg.Preset, nil)
		if err != nil {
			return nil, err
		}

		spawnSeed := rng.Int63()
		c.Spawn.Seed = spawnSeed
		for i := range c.Spawn.Regions {
			c.Spawn.Regions[i].Jitter += float32(cfg.Perturbation)
		}

		runner, err := buildRunnerFromConfig(c, backend)
		if err != nil {
			return nil, err
		}

		result, err := runner.Run(ctx, cfg.Duration, frameDt)
		if err != nil {
			return nil, err
		}

		stable := runner.Solver().Valid() && result.Metrics["max_speed"] < 1e6

		results = append(results, MonteCarloResult{
			TrialID:      trial,
			SpawnSeed:    spawnSeed,
			FinalMetrics: result.Metrics,
			Stable:       stable,
		})

		if (trial+1)%10 == 0 {
			fmt.Printf("Monte Carlo: %d/%d trials complete\n", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

func buildRunnerFromConfig(cfg *config.Config, backend compute.Backend) (*solver.Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := solver.New(cfg, backend)
	if err != nil {
		return nil, err
	}
	r := solver.NewRunner(s)
	r.AddMetric(metrics.NewDensityDeviation(float64(cfg.TargetDensity)))
	r.AddMetric(metrics.NewKineticEnergy())
	r.AddMetric(metrics.NewMaxSpeed())
	return r, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
