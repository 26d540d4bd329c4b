package quality

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights distributes the overall score across the five sub-scores.
// They must sum to 1.
type Weights struct {
	Content    float64 `yaml:"content"`
	Engagement float64 `yaml:"engagement"`
	Social     float64 `yaml:"social"`
	Author     float64 `yaml:"author"`
	Recency    float64 `yaml:"recency"`
}

func DefaultWeights() Weights {
	return Weights{
		Content:    0.30,
		Engagement: 0.25,
		Social:     0.20,
		Author:     0.15,
		Recency:    0.10,
	}
}

func (w Weights) Validate() error {
	sum := w.Content + w.Engagement + w.Social + w.Author + w.Recency
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("score weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// LoadWeights reads a weights file; any omitted field falls back to its
// default so partial overrides stay valid only when they rebalance.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, fmt.Errorf("failed to read weights file: %w", err)
	}

	weights := DefaultWeights()
	if err := yaml.Unmarshal(data, &weights); err != nil {
		return Weights{}, fmt.Errorf("failed to parse weights file: %w", err)
	}

	if err := weights.Validate(); err != nil {
		return Weights{}, err
	}
	return weights, nil
}
