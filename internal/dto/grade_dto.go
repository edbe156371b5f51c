package dto

// GradeRequest is the body accepted by POST /grade.
type GradeRequest struct {
	FileURL string `json:"file_url" validate:"required"`
}

// GradingResult is the normalized record produced for each analyzed paper.
// The Name key is capitalized on the wire for compatibility with existing
// EduMate consumers.
type GradingResult struct {
	Name        string   `json:"Name"`
	Marks       int      `json:"marks"`
	Remarks     []string `json:"remarks"`
	Suggestions []string `json:"suggestions"`
	Errors      []string `json:"errors"`
}

// GradeErrorResponse is the flat error body returned by POST /grade.
type GradeErrorResponse struct {
	Error string `json:"error"`
}
