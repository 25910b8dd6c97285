package domain

import "time"

// N-gram size bounds accepted by the engine.
const (
	MinNGram = 2
	MaxNGram = 5
)

// MaxTextLength is the longest text the engine accepts, in characters.
const MaxTextLength = 100000

// CheckStatus is the state of a progressive check run.
type CheckStatus string

// Progressive check states.
const (
	// CheckStarted is emitted once with the corpus size.
	CheckStarted CheckStatus = "started"

	// CheckProgress is emitted once per scored document.
	CheckProgress CheckStatus = "progress"

	// CheckCompleted terminates a successful run.
	CheckCompleted CheckStatus = "completed"

	// CheckFailed terminates a run that could not read the corpus.
	CheckFailed CheckStatus = "failed"
)

// IsTerminal returns true for states that end a run.
func (s CheckStatus) IsTerminal() bool {
	return s == CheckCompleted || s == CheckFailed
}

// String returns the string representation.
func (s CheckStatus) String() string {
	return string(s)
}

// CheckEvent is one typed record of a progressive check.
// Which fields are meaningful depends on Status.
type CheckEvent struct {
	Status CheckStatus

	// Total is the corpus size (started).
	Total int

	// Progress is the running percentage 0..100 (progress).
	Progress int

	// Result is set on progress events when the scored document matched.
	Result *SimilarityResult

	// TotalResults is the number of matches reported (completed).
	TotalResults int

	// Err is the failure cause (failed).
	Err error
}

// ScoreStats describes the work done by a synchronous check.
type ScoreStats struct {
	Tokens           int    `json:"tokens"`
	NGrams           int    `json:"ngrams"`
	DocumentsChecked int    `json:"documents_checked"`
	CacheUsed        bool   `json:"cache_used"`
	Hits             uint64 `json:"hits"`
	Misses           uint64 `json:"misses"`
	Size             int    `json:"size"`
}

// ScoreReport is the result of a synchronous check.
type ScoreReport struct {
	// Score is the highest similarity across the corpus.
	Score float64 `json:"score"`

	// Matches are the best matches, highest similarity first.
	Matches []SimilarityResult `json:"matches"`

	Stats ScoreStats `json:"stats"`

	// FilteredByThreshold is the cutoff applied to Matches, 0 when none was.
	FilteredByThreshold float64 `json:"filtered_by_threshold,omitempty"`
}

// QuickResultKind marks approximate results so callers never mistake them
// for full n-gram scores.
const QuickResultKind = "quick"

// QuickResult is an approximate match from the quick-check heuristic.
type QuickResult struct {
	DocID      string   `json:"doc_id"`
	DocTitle   string   `json:"doc_title"`
	DocAuthor  string   `json:"doc_author"`
	Similarity float64  `json:"similarity"`
	Reasons    []string `json:"reasons"`
	Kind       string   `json:"kind"`
}

// QuickReport is the result of a quick check.
type QuickReport struct {
	Results      []QuickResult `json:"quick_results"`
	TotalChecked int           `json:"total_checked"`
}

// CheckRecord is a persisted check of a stored document.
type CheckRecord struct {
	ID           int64     `json:"id"`
	DocumentID   string    `json:"document_id"`
	DocTitle     string    `json:"doc_title,omitempty"`
	DocAuthor    string    `json:"doc_author,omitempty"`
	Score        float64   `json:"similarity_score"`
	MatchedDocID string    `json:"matched_doc_id,omitempty"`
	CheckedAt    time.Time `json:"checked_at"`
}
