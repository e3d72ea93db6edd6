package types

import "time"

// Source names used as keys throughout the pipeline.
const (
	SourceADS      = "ads"
	SourceOpenAlex = "openalex"
	SourceScholar  = "google_scholar"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubsync/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the catalog fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// AuthorQuery is the ADS author search expression
	// (e.g. `author:"Speagle, J"`).
	AuthorQuery string `json:"author_query" yaml:"author_query"`

	// OpenAlexAuthorID is the OpenAlex author identifier (e.g. "A5039446916").
	OpenAlexAuthorID string `json:"openalex_author_id" yaml:"openalex_author_id"`

	// ScholarAuthorID is the Google Scholar profile identifier.
	ScholarAuthorID string `json:"scholar_author_id" yaml:"scholar_author_id"`

	// MaxResults caps the number of records fetched per source (default 1000).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// EnableADS, EnableOpenAlex, and EnableScholar toggle individual sources.
	EnableADS      bool `json:"enable_ads" yaml:"enable_ads"`
	EnableOpenAlex bool `json:"enable_openalex" yaml:"enable_openalex"`
	EnableScholar  bool `json:"enable_scholar" yaml:"enable_scholar"`

	// InterSourceDelay is the delay between requests to different catalogs
	// (default 1s).
	InterSourceDelay time.Duration `json:"inter_source_delay" yaml:"inter_source_delay"`

	// ADSAPIKey, OpenAlexEmail, and SerpAPIKey authenticate the catalog
	// APIs. Usually loaded from the secrets directory rather than config.
	ADSAPIKey     string `json:"ads_api_key,omitempty" yaml:"ads_api_key,omitempty"`
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`
	SerpAPIKey    string `json:"serpapi_key,omitempty" yaml:"serpapi_key,omitempty"`
}

// ReconcileConfig holds settings for cross-source matching and merging.
type ReconcileConfig struct {
	// MatchThreshold is the minimum title similarity for accepting a
	// cross-source match (default 0.67).
	MatchThreshold float64 `json:"match_threshold" yaml:"match_threshold"`

	// SourcePriority orders sources for fill-if-empty field arbitration,
	// most trusted first (default ads, openalex, google_scholar).
	SourcePriority []string `json:"source_priority" yaml:"source_priority"`
}

// Defaulted returns a copy with zero values replaced by defaults.
func (c ReconcileConfig) Defaulted() ReconcileConfig {
	if c.MatchThreshold == 0 {
		c.MatchThreshold = 0.67
	}
	if len(c.SourcePriority) == 0 {
		c.SourcePriority = []string{SourceADS, SourceOpenAlex, SourceScholar}
	}
	return c
}

// CategoryConfig holds settings for the topical classification stage.
type CategoryConfig struct {
	// LexiconPath optionally overrides the built-in keyword lexicon with a
	// YAML file of the same shape. Empty uses the built-in tables.
	LexiconPath string `json:"lexicon_path,omitempty" yaml:"lexicon_path,omitempty"`

	// AbstractLimit caps how many abstract characters are scored
	// (default 800).
	AbstractLimit int `json:"abstract_limit" yaml:"abstract_limit"`
}

// StoreConfig holds settings for the archive and export stage.
type StoreConfig struct {
	// DataDir is the base data directory (contains cache/, index/, backups/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// ExportFile is the canonical publications JSON path
	// (default DataDir/publications_data.json).
	ExportFile string `json:"export_file,omitempty" yaml:"export_file,omitempty"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ValidationConfig holds sanity bounds checked after a pipeline run.
// Violations produce warnings, not failures.
type ValidationConfig struct {
	// MinPapers is the minimum expected publication count (default 50).
	MinPapers int `json:"min_papers" yaml:"min_papers"`

	// MaxHIndex is the sanity ceiling for the h-index (default 100).
	MaxHIndex int `json:"max_h_index" yaml:"max_h_index"`

	// MaxCitations is the sanity ceiling for total citations (default 50000).
	MaxCitations int `json:"max_citations" yaml:"max_citations"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Reconcile  ReconcileConfig  `json:"reconcile" yaml:"reconcile"`
	Category   CategoryConfig   `json:"category" yaml:"category"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Validation ValidationConfig `json:"validation" yaml:"validation"`
}
