package recommend

import "fmt"

const numericFeatures = 3

type Features struct {
	WorkoutType    string
	Equipment      string
	Intensity      string
	DurationMin    int
	CaloriesBurned float64
}

// Predict runs the feature vector through the exported pipeline:
// scale numerics, one-hot encode categoricals, walk the tree.
func (m *Model) Predict(f Features) (string, error) {
	if m == nil {
		return "", ErrModelNotLoaded
	}

	score, ok := intensityScore[f.Intensity]

	if !ok {
		return "", fmt.Errorf("%w: intensity %q", ErrBadFeature, f.Intensity)
	}

	vec := make([]float64, 0, numericFeatures+len(m.WorkoutTypes)+len(m.Equipment))

	numeric := [numericFeatures]float64{
		float64(f.DurationMin),
		f.CaloriesBurned,
		score,
	}

	for i, v := range numeric {
		vec = append(vec, (v-m.ScalerMean[i])/m.ScalerScale[i])
	}

	vec = append(vec, oneHot(m.WorkoutTypes, f.WorkoutType)...)
	vec = append(vec, oneHot(m.Equipment, f.Equipment)...)

	node := 0

	for m.Tree.Feature[node] >= 0 {
		if vec[m.Tree.Feature[node]] <= m.Tree.Threshold[node] {
			node = m.Tree.Left[node]
		} else {
			node = m.Tree.Right[node]
		}
	}

	return m.Classes[m.Tree.Leaf[node]], nil
}

// unknown categories encode to all zeros, matching the training pipeline's
// handle_unknown=ignore behaviour
func oneHot(vocab []string, value string) []float64 {
	out := make([]float64, len(vocab))

	for i, v := range vocab {
		if v == value {
			out[i] = 1
			break
		}
	}

	return out
}
