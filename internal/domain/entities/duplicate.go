package entities

// DuplicateGroup is a set of two or more questions judged to be the
// same underlying question, together with the member chosen to stand
// in for the whole group.
type DuplicateGroup struct {
	Representative Question   `json:"representative"`
	Duplicates     []Question `json:"duplicates"` // members removed in favor of the representative
}

// DuplicateAnalysis summarizes a dedup pass over a question pool.
type DuplicateAnalysis struct {
	TotalCount     int              `json:"totalCount"`
	UniqueCount    int              `json:"uniqueCount"`
	DuplicateCount int              `json:"duplicateCount"`
	Groups         []DuplicateGroup `json:"groups"`
}

// RemovalResult is the outcome of removing duplicates from a pool.
// CleanPool preserves the relative order of first occurrence among the
// kept questions; Removed lists every non-representative member.
type RemovalResult struct {
	CleanPool []Question        `json:"cleanPool"`
	Removed   []Question        `json:"removed"`
	Analysis  DuplicateAnalysis `json:"analysis"`
}
