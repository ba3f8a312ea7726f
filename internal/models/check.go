package models

/**
 * Result of a full catalog verification
 * @property {bool} valid - True when no invariant is violated
 * @property {[]Violation} violations - Every violated rule, in id order
 */
type CheckResponse struct {
	Timestamp  string      `json:"timestamp"`
	Path       string      `json:"path"`
	Components int         `json:"components"`
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations"`
}

// Violation describes one broken catalog rule.
type Violation struct {
	ID      string `json:"id"`
	Rule    string `json:"rule"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}
