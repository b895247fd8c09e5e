package models

// Answer method tags.
const (
	MethodStructured = "structured"
	MethodSemantic   = "semantic"
)

// Answer is the uniform result envelope both orchestrators return. Question and
// Method are always set, including on failure.
type Answer struct {
	Success  bool   `json:"success"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Method   string `json:"method"`
	Error    string `json:"error,omitempty"`

	// Structured mode diagnostics.
	QueryType     string `json:"query_type,omitempty"`
	DataRetrieved any    `json:"data_retrieved,omitempty"`

	// Semantic mode diagnostics.
	DocumentsRetrieved int                 `json:"documents_retrieved,omitempty"`
	Documents          []RetrievedDocument `json:"documents,omitempty"`
}

// IndexReport summarizes a bulk indexing run. Success stays true on partial
// failure; callers inspect Failed.
type IndexReport struct {
	Success bool   `json:"success"`
	Total   int    `json:"total_notas"`
	Indexed int    `json:"indexed"`
	Failed  int    `json:"failed"`
	Error   string `json:"error,omitempty"`
}

// IndexStatus reports how much of the invoice corpus is embedded.
type IndexStatus struct {
	DocumentsIndexed int     `json:"total_documents_indexed"`
	InvoiceCount     int     `json:"total_notas_fiscais"`
	Percentage       float64 `json:"indexation_percentage"`
	Model            string  `json:"model_used"`
}
