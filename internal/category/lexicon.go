// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package category assigns research-area probabilities to publication
// records using a weighted keyword lexicon. Methodological vocabulary is
// weighted far above astronomical vocabulary so that methods papers are
// recognized even when applied to astronomy.
package category

import (
	"fmt"
	"os"
	"regexp"
	"sync"

	yaml "go.yaml.in/yaml/v3"
)

// Canonical label names. Their order here is the tie-break order for
// primary-category assignment.
const (
	LabelStatisticalLearning = "Statistical Learning & AI"
	LabelInterpretability    = "Interpretability & Insight"
	LabelInference           = "Inference & Computation"
	LabelDiscovery           = "Discovery & Understanding"
)

// entry is one lexicon keyword with its base weight and the compiled
// word-boundary pattern used for presence tests.
type entry struct {
	keyword string
	weight  float64
	pattern *regexp.Regexp
}

// Lexicon holds the per-label keyword tables and priority multipliers used
// by the Scorer. Construct one with Default or Load; a Lexicon is immutable
// after construction and safe for concurrent use.
type Lexicon struct {
	labels   []string
	entries  map[string][]entry
	priority map[string]float64
}

// Labels returns the label names in canonical order.
func (l *Lexicon) Labels() []string {
	return append([]string(nil), l.labels...)
}

// Priority returns the methodological priority multiplier for a label,
// defaulting to 1.0 for unknown labels.
func (l *Lexicon) Priority(label string) float64 {
	if p, ok := l.priority[label]; ok {
		return p
	}
	return 1.0
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the built-in lexicon. The keyword tables are compiled on
// first use and shared by all callers.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		defaultLex = build(defaultLabels(), defaultKeywords(), defaultPriorities())
	})
	return defaultLex
}

// lexiconFile is the on-disk override format. Categories are a list so the
// file's label order is preserved as the tie-break order.
type lexiconFile struct {
	Categories []struct {
		Label    string             `yaml:"label"`
		Priority float64            `yaml:"priority"`
		Keywords map[string]float64 `yaml:"keywords"`
	} `yaml:"categories"`
}

// Load reads a lexicon override from a YAML file. An empty path returns the
// built-in lexicon.
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon %s: %w", path, err)
	}

	var file lexiconFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing lexicon %s: %w", path, err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("lexicon %s defines no categories", path)
	}

	labels := make([]string, 0, len(file.Categories))
	keywords := make(map[string]map[string]float64, len(file.Categories))
	priorities := make(map[string]float64, len(file.Categories))
	for _, c := range file.Categories {
		if c.Label == "" {
			return nil, fmt.Errorf("lexicon %s has a category without a label", path)
		}
		if len(c.Keywords) == 0 {
			return nil, fmt.Errorf("lexicon %s: category %q has no keywords", path, c.Label)
		}
		labels = append(labels, c.Label)
		keywords[c.Label] = c.Keywords
		p := c.Priority
		if p <= 0 {
			p = 1.0
		}
		priorities[c.Label] = p
	}

	return build(labels, keywords, priorities), nil
}

func build(labels []string, keywords map[string]map[string]float64, priorities map[string]float64) *Lexicon {
	lex := &Lexicon{
		labels:   labels,
		entries:  make(map[string][]entry, len(labels)),
		priority: priorities,
	}
	for _, label := range labels {
		table := keywords[label]
		list := make([]entry, 0, len(table))
		for kw, w := range table {
			list = append(list, entry{
				keyword: kw,
				weight:  w,
				pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`),
			})
		}
		lex.entries[label] = list
	}
	return lex
}

func defaultLabels() []string {
	return []string{
		LabelStatisticalLearning,
		LabelInterpretability,
		LabelInference,
		LabelDiscovery,
	}
}

// Methodological labels get a moderate boost over the astronomy-application
// label so that methods vocabulary dominates without suppressing genuinely
// multi-category papers.
func defaultPriorities() map[string]float64 {
	return map[string]float64{
		LabelStatisticalLearning: 2.0,
		LabelInterpretability:    2.0,
		LabelInference:           2.0,
		LabelDiscovery:           1.0,
	}
}

func defaultKeywords() map[string]map[string]float64 {
	return map[string]map[string]float64{
		LabelStatisticalLearning: {
			// Deep learning and neural networks.
			"neural network":          15.0,
			"neural networks":         15.0,
			"deep learning":           15.0,
			"machine learning":        15.0,
			"artificial intelligence": 12.0,
			"convolutional":           12.0,
			"recurrent":               12.0,
			"transformer":             12.0,
			"attention":               10.0,

			// Generative models.
			"variational autoencoder":  15.0,
			"variational auto-encoder": 15.0,
			"autoencoder":              12.0,
			"auto-encoder":             12.0,
			"encoder":                  8.0,
			"decoder":                  8.0,
			"variational":              10.0,
			"generative model":         12.0,
			"generative models":        12.0,
			"generative":               8.0,

			// Flow-based models.
			"normalizing flows": 15.0,
			"normalizing flow":  15.0,
			"conditional flows": 12.0,
			"invertible":        10.0,
			"bijective":         10.0,

			// Core ML concepts.
			"data-driven":              12.0,
			"data driven":              12.0,
			"unsupervised":             10.0,
			"supervised":               8.0,
			"semi-supervised":          8.0,
			"representation learning":  10.0,
			"latent space":             10.0,
			"latent":                   6.0,
			"embedding":                8.0,
			"feature learning":         8.0,
			"feature extraction":       6.0,
			"dimensionality reduction": 8.0,
			"spectral":                 6.0,
			"spectra":                  4.0,

			// Training and optimization.
			"training":         4.0,
			"optimization":     4.0,
			"gradient":         4.0,
			"backpropagation":  6.0,
			"hyperparameter":   4.0,
			"cross-validation": 4.0,

			// Classic ML methods.
			"random forest":    6.0,
			"support vector":   6.0,
			"gaussian process": 6.0,
			"kernel":           4.0,
			"clustering":       6.0,
			"classification":   6.0,
			"regression":       5.0,
			"ensemble":         6.0,

			// Model types.
			"probabilistic model": 6.0,
			"statistical model":   5.0,
			"nonparametric":       5.0,
			"parametric":          3.0,
			"flexible model":      5.0,

			// Performance and evaluation.
			"prediction":     3.0,
			"predictive":     3.0,
			"reconstruction": 5.0,
			"accuracy":       3.0,
			"performance":    3.0,
			"validation":     3.0,

			// Data processing.
			"preprocessing":   4.0,
			"normalization":   4.0,
			"standardization": 4.0,
			"augmentation":    4.0,
		},

		LabelInterpretability: {
			// Core interpretability.
			"interpretability": 15.0,
			"interpretable":    15.0,
			"explainable":      15.0,
			"explainability":   15.0,
			"explanation":      10.0,
			"trustworthy":      12.0,
			"transparency":     10.0,
			"black box":        8.0,
			"white box":        8.0,

			// Feature analysis and attribution.
			"feature importance":   12.0,
			"attribution":          10.0,
			"feature attribution":  12.0,
			"saliency":             8.0,
			"attention map":        8.0,
			"gradient-based":       6.0,
			"integrated gradients": 8.0,
			"shapley":              8.0,
			"shap":                 8.0,
			"lime":                 8.0,

			// Model understanding.
			"understanding": 6.0,
			"insight":       8.0,
			"insights":      8.0,
			"interpretation": 8.0,
			"analysis":       4.0,
			"visualization":  6.0,
			"visualisation":  6.0,
			"conflicting":    6.0,
			"role":           3.0,
			"constraining":   5.0,

			// Bias and label systematics.
			"bias":           10.0,
			"systematic":     8.0,
			"systematics":    10.0,
			"gap":            8.0,
			"label":          6.0,
			"labels":         6.0,
			"independent":    5.0,
			"dependent":      4.0,
			"dependence":     4.0,
			"fairness":       8.0,
			"discrimination": 6.0,
			"equity":         6.0,

			// Uncertainty and reliability.
			"uncertainty quantification": 12.0,
			"uncertainty":                8.0,
			"confidence":                 5.0,
			"reliability":                8.0,
			"robustness":                 8.0,
			"robust":                     6.0,
			"stable":                     4.0,
			"stability":                  5.0,
			"sensitive":                  4.0,
			"sensitivity":                5.0,

			// Validation and testing.
			"validation":   5.0,
			"verification": 5.0,
			"testing":      4.0,
			"evaluation":   4.0,
			"assessment":   4.0,
			"diagnostic":   5.0,
			"diagnostics":  5.0,
			"calibration":  6.0,
			"calibrated":   5.0,

			// Adversarial and counterfactual.
			"adversarial":    6.0,
			"counterfactual": 8.0,
			"perturbation":   6.0,
			"occlusion":      6.0,

			// Model behavior.
			"behavior":  5.0,
			"behaviour": 5.0,
			"decision":  4.0,
			"reasoning": 6.0,
			"rationale": 6.0,
		},

		LabelInference: {
			// Bayesian methods.
			"bayesian":            15.0,
			"bayesian inference":  18.0,
			"bayesian statistics": 15.0,
			"bayesian analysis":   12.0,
			"bayesian framework":  10.0,
			"bayesian approach":   10.0,
			"bayesian model":      10.0,

			// Core statistical inference.
			"inference":              12.0,
			"statistical inference":  15.0,
			"statistical framework":  12.0,
			"statistical analysis":   8.0,
			"likelihood":             10.0,
			"likelihood-free":        12.0,
			"posterior":              10.0,
			"prior":                  10.0,
			"priors":                 10.0,
			"posterior distribution": 8.0,
			"prior distribution":     8.0,
			"marginal likelihood":    8.0,
			"evidence":               6.0,

			// MCMC and sampling.
			"markov chain monte carlo": 15.0,
			"markov chain":             12.0,
			"mcmc":                     15.0,
			"monte carlo":              12.0,
			"sampling":                 8.0,
			"nested sampling":          12.0,
			"importance sampling":      10.0,
			"rejection sampling":       8.0,
			"hamiltonian":              10.0,
			"metropolis":               8.0,
			"gibbs":                    8.0,
			"slice sampling":           8.0,

			// Variational methods.
			"variational inference":     12.0,
			"variational bayes":         12.0,
			"variational approximation": 8.0,
			"mean field":                6.0,

			// Model selection and comparison.
			"model selection":       12.0,
			"model comparison":      12.0,
			"model averaging":       8.0,
			"information criterion": 8.0,
			"cross-validation":      6.0,
			"aic":                   6.0,
			"bic":                   6.0,
			"dic":                   6.0,
			"waic":                  8.0,
			"loo":                   6.0,
			"leave-one-out":         6.0,

			// Count and mixture models.
			"zero-inflated":     15.0,
			"zero inflated":     15.0,
			"hurdle model":      12.0,
			"hurdle":            8.0,
			"count model":       10.0,
			"count data":        8.0,
			"overdispersion":    8.0,
			"negative binomial": 10.0,
			"poisson":           8.0,
			"binomial":          6.0,
			"multinomial":       6.0,

			// Hierarchical models.
			"hierarchical":       10.0,
			"hierarchical model": 12.0,
			"multilevel":         8.0,
			"mixed effects":      8.0,
			"random effects":     6.0,
			"fixed effects":      4.0,

			// Parameter estimation and calibration.
			"parameter estimation": 8.0,
			"estimation":           6.0,
			"estimator":            6.0,
			"maximum likelihood":   8.0,
			"maximum a posteriori": 8.0,
			"method of moments":    6.0,
			"calibrate":            8.0,
			"calibration":          8.0,
			"calibrated":           6.0,
			"grid":                 6.0,
			"grids":                6.0,

			// Intervals and uncertainty.
			"credible interval":          8.0,
			"confidence interval":        6.0,
			"prediction interval":        6.0,
			"uncertainty quantification": 8.0,

			// Hypothesis testing.
			"hypothesis testing": 8.0,
			"significance":       4.0,
			"p-value":            4.0,
			"statistical test":   6.0,

			// Computational methods.
			"computational statistics": 10.0,
			"numerical methods":        6.0,
			"simulation":               6.0,
			"bootstrap":                6.0,
			"resampling":               6.0,
			"permutation":              4.0,

			// Distributions.
			"probability":   5.0,
			"probabilistic": 6.0,
			"stochastic":    6.0,
			"distribution":  4.0,
			"gaussian":      4.0,
			"normal":        3.0,
			"uniform":       3.0,
			"beta":          4.0,
			"gamma":         4.0,
			"dirichlet":     6.0,

			// Diagnostics.
			"diagnostic":            5.0,
			"convergence":           5.0,
			"trace":                 4.0,
			"effective sample size": 5.0,
			"autocorrelation":       4.0,
			"chain":                 4.0,

			// Approximate methods.
			"approximate":   5.0,
			"approximation": 5.0,
			"asymptotic":    4.0,
			"large sample":  4.0,

			// Frequentist methods.
			"frequentist": 6.0,
			"classical":   3.0,
			"traditional": 2.0,
		},

		LabelDiscovery: {
			// Astronomical objects. Weights stay low so methodological
			// vocabulary dominates mixed papers.
			"galaxy":       4.0,
			"galaxies":     4.0,
			"stellar":      3.0,
			"star":         3.0,
			"stars":        3.0,
			"supernova":    4.0,
			"supernovae":   4.0,
			"quasar":       4.0,
			"black hole":   4.0,
			"neutron star": 4.0,
			"white dwarf":  4.0,
			"exoplanet":    4.0,

			// Galactic and extragalactic.
			"milky way":        4.0,
			"andromeda":        4.0,
			"local group":      4.0,
			"cluster":          3.0,
			"globular cluster": 4.0,
			"open cluster":     4.0,
			"galaxy cluster":   4.0,

			// Cosmology.
			"dark matter":  5.0,
			"dark energy":  5.0,
			"cosmology":    5.0,
			"cosmological": 4.0,
			"universe":     4.0,
			"cosmic":       4.0,
			"redshift":     4.0,

			// Observational properties.
			"luminosity":   2.0,
			"magnitude":    2.0,
			"photometry":   2.0,
			"spectroscopy": 2.0,
			"spectrum":     2.0,
			"spectra":      2.0,
			"emission":     2.0,
			"absorption":   2.0,

			// Physical properties.
			"metallicity":     3.0,
			"abundance":       3.0,
			"chemical":        3.0,
			"kinematic":       3.0,
			"proper motion":   3.0,
			"radial velocity": 3.0,
			"distance":        3.0,
			"parallax":        3.0,

			// Processes and evolution.
			"formation":   4.0,
			"evolution":   4.0,
			"population":  2.0,
			"populations": 2.0,
			"structure":   2.0,
			"morphology":  3.0,

			// Surveys and catalogs.
			"catalog":       3.0,
			"catalogue":     3.0,
			"survey":        3.0,
			"observation":   2.0,
			"observational": 2.0,

			// Instruments and missions.
			"telescope":  3.0,
			"instrument": 2.0,
			"gaia":       3.0,
			"hubble":     3.0,
			"jwst":       3.0,
			"kepler":     3.0,
			"sloan":      3.0,
			"sdss":       3.0,
			"desi":       3.0,

			// Discovery language.
			"discovery":        5.0,
			"detection":        4.0,
			"identification":   3.0,
			"characterization": 3.0,
			"measurement":      2.0,
			"constraint":       2.0,
			"determination":    2.0,
		},
	}
}
