// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package category

import "math"

// Diagnostic thresholds for flagging ambiguous category assignments.
const (
	lowConfidenceMax  = 0.6
	multiCategoryProb = 0.2
	multiCategoryMin  = 3
	entropyMax        = 1.0
)

// Diagnostics flags distributions that deserve operator review.
type Diagnostics struct {
	// LowConfidence is set when no label reaches 60% probability.
	LowConfidence bool `json:"lowConfidence"`

	// MultiCategory is set when three or more labels each exceed 20%.
	MultiCategory bool `json:"multiCategory"`

	// HighEntropy is set when the distribution's Shannon entropy exceeds
	// 1.0 nat, meaning the mass is spread nearly evenly.
	HighEntropy bool `json:"highEntropy"`

	MaxProbability float64 `json:"maxProbability"`
	Entropy        float64 `json:"entropy"`
}

// Flagged reports whether any diagnostic fired.
func (d Diagnostics) Flagged() bool {
	return d.LowConfidence || d.MultiCategory || d.HighEntropy
}

// Diagnose inspects a probability distribution over labels.
func Diagnose(probs map[string]float64) Diagnostics {
	var d Diagnostics

	spread := 0
	for _, p := range probs {
		if p > d.MaxProbability {
			d.MaxProbability = p
		}
		if p > multiCategoryProb {
			spread++
		}
		if p > 0 {
			d.Entropy -= p * math.Log(p)
		}
	}

	d.LowConfidence = d.MaxProbability < lowConfidenceMax
	d.MultiCategory = spread >= multiCategoryMin
	d.HighEntropy = d.Entropy > entropyMax
	return d
}
