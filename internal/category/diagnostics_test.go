// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package category

import (
	"math"
	"testing"

	"github.com/pdiddy/pubsync/pkg/types"
)

func TestDiagnoseConfidentDistribution(t *testing.T) {
	d := Diagnose(map[string]float64{
		LabelStatisticalLearning: 0.9,
		LabelInterpretability:    0.05,
		LabelInference:           0.03,
		LabelDiscovery:           0.02,
	})

	if d.Flagged() {
		t.Errorf("confident distribution should not be flagged: %+v", d)
	}
	if d.MaxProbability != 0.9 {
		t.Errorf("max probability = %f, want 0.9", d.MaxProbability)
	}
}

func TestDiagnoseSpreadDistribution(t *testing.T) {
	d := Diagnose(map[string]float64{
		LabelStatisticalLearning: 0.3,
		LabelInterpretability:    0.3,
		LabelInference:           0.25,
		LabelDiscovery:           0.15,
	})

	if !d.LowConfidence {
		t.Error("expected low confidence at max p 0.3")
	}
	if !d.MultiCategory {
		t.Error("expected multi-category with three labels above 0.2")
	}
	if !d.HighEntropy {
		t.Errorf("expected high entropy, got %f", d.Entropy)
	}
}

func TestDiagnoseUniform(t *testing.T) {
	d := Diagnose(map[string]float64{
		LabelStatisticalLearning: 0.25,
		LabelInterpretability:    0.25,
		LabelInference:           0.25,
		LabelDiscovery:           0.25,
	})

	if !d.LowConfidence || !d.MultiCategory || !d.HighEntropy {
		t.Errorf("uniform distribution should trip every diagnostic: %+v", d)
	}
	if math.Abs(d.Entropy-math.Log(4)) > 1e-9 {
		t.Errorf("entropy = %f, want ln 4", d.Entropy)
	}
}

func TestDiagnoseBoundaries(t *testing.T) {
	// Max probability exactly at the threshold is not low confidence, two
	// labels above 0.2 is not multi-category, and the entropy stays under
	// 1.0 nat.
	d := Diagnose(map[string]float64{
		LabelStatisticalLearning: 0.6,
		LabelInterpretability:    0.3,
		LabelInference:           0.05,
		LabelDiscovery:           0.05,
	})

	if d.Flagged() {
		t.Errorf("boundary distribution should not be flagged: %+v", d)
	}
}

func TestDiagnoseScoredAmbiguousRecord(t *testing.T) {
	s := newTestScorer(t)

	// One keyword from three different labels and nothing dominant.
	res := s.Score(types.Record{Title: "Interpretable neural networks and the posterior"})

	over := 0
	for _, p := range res.Probabilities {
		if p > 0.2 {
			over++
		}
	}
	if over < 3 {
		t.Fatalf("expected at least three labels above 0.2, got %d (%v)", over, res.Probabilities)
	}

	d := Diagnose(res.Probabilities)
	if !d.MultiCategory {
		t.Errorf("expected multi-category diagnostic: %+v", d)
	}
	if !d.LowConfidence {
		t.Errorf("expected low confidence diagnostic: %+v", d)
	}
}
