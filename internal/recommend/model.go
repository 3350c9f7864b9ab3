package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	ErrModelNotLoaded = errors.New("goal model not loaded")
	ErrBadFeature     = errors.New("feature outside the trained domain")
)

// intensityScore mirrors the encoding the classifier was trained with.
var intensityScore = map[string]float64{
	"very_low": 1,
	"low":      2,
	"moderate": 3,
	"high":     4,
}

// Model is a pre-trained goal classifier exported offline to JSON:
// a standard scaler over the numeric features, one-hot encodings for the
// categorical ones, and a decision tree in flattened array form.
type Model struct {
	// scaler parameters for [duration_min, calories_burned, intensity_score]
	ScalerMean  []float64 `json:"scaler_mean"`
	ScalerScale []float64 `json:"scaler_scale"`

	// one-hot category vocabularies; unseen values encode to all zeros
	WorkoutTypes []string `json:"workout_types"`
	Equipment    []string `json:"equipment"`

	Tree    Tree     `json:"tree"`
	Classes []string `json:"classes"`
}

// Tree is a binary decision tree: node i tests feature Feature[i] against
// Threshold[i]; Left/Right hold child indices; Feature[i] == -1 marks a leaf
// whose predicted class index is Leaf[i].
type Tree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Leaf      []int     `json:"leaf"`
}

func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	var m Model

	err = json.Unmarshal(raw, &m)

	if err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}

	err = m.validate()

	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *Model) validate() error {
	if len(m.ScalerMean) != numericFeatures || len(m.ScalerScale) != numericFeatures {
		return fmt.Errorf("scaler expects %d numeric features, got mean=%d scale=%d",
			numericFeatures, len(m.ScalerMean), len(m.ScalerScale))
	}

	for i, s := range m.ScalerScale {
		if s == 0 {
			return fmt.Errorf("scaler scale[%d] is zero", i)
		}
	}

	if len(m.Classes) == 0 {
		return errors.New("model has no classes")
	}

	n := len(m.Tree.Feature)

	if n == 0 ||
		len(m.Tree.Threshold) != n ||
		len(m.Tree.Left) != n ||
		len(m.Tree.Right) != n ||
		len(m.Tree.Leaf) != n {
		return errors.New("tree arrays are empty or of mismatched length")
	}

	width := numericFeatures + len(m.WorkoutTypes) + len(m.Equipment)

	for i := 0; i < n; i++ {
		if m.Tree.Feature[i] >= width {
			return fmt.Errorf("tree node %d tests feature %d, vector width is %d", i, m.Tree.Feature[i], width)
		}

		if m.Tree.Feature[i] < 0 {
			if m.Tree.Leaf[i] < 0 || m.Tree.Leaf[i] >= len(m.Classes) {
				return fmt.Errorf("tree leaf %d has class index %d out of range", i, m.Tree.Leaf[i])
			}
			continue
		}

		if m.Tree.Left[i] < 0 || m.Tree.Left[i] >= n || m.Tree.Right[i] < 0 || m.Tree.Right[i] >= n {
			return fmt.Errorf("tree node %d has child index out of range", i)
		}
	}

	return nil
}
