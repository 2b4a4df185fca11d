package domain

// Page is the presentation-boundary view of one search: the query, the
// engines consulted and the final ordered results.
type Page struct {
	Query   string
	Engines []string
	Results []ScoredResult
	// ShowScores keeps the rounded annotations in the output.
	ShowScores bool
}
