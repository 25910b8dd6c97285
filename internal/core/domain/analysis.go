package domain

// ChainNode is one document of a relationship chain.
type ChainNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Analysis is the corpus-wide recursive analysis.
type Analysis struct {
	// Similarities holds, per document in corpus order, its highest
	// similarity against any other document.
	Similarities []float64 `json:"similarities"`

	// DocumentTree is the longest chain of similarity-linked document ids.
	DocumentTree []string `json:"document_tree"`

	// TreeWithTitles is DocumentTree with titles attached.
	TreeWithTitles []ChainNode `json:"tree_with_titles"`
}

// Batch holds descriptive statistics for a contiguous slice of the corpus.
type Batch struct {
	Index      int      `json:"batch"`
	Documents  int      `json:"documents"`
	TotalChars int      `json:"total_chars"`
	AvgChars   int      `json:"avg_chars"`
	Authors    []string `json:"authors"`
}

// BatchReport is the batch statistics view over the whole corpus.
type BatchReport struct {
	TotalDocuments  int     `json:"total_documents"`
	TotalCharacters int     `json:"total_characters"`
	AverageLength   int     `json:"average_length"`
	Batches         []Batch `json:"batches"`
}
