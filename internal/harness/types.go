package harness

// CaseResult is the translation of one scenario case.
type CaseResult struct {
	CQL          string   `json:"cql"`
	Where        string   `json:"where,omitempty"`
	OrderBy      string   `json:"order_by,omitempty"`
	Select       string   `json:"select,omitempty"`
	Joins        []string `json:"joins,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
	ErrorCode    string   `json:"error_code,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// Failed reports whether the translation returned an error.
func (r CaseResult) Failed() bool {
	return r.ErrorCode != ""
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every case matches its expectations.
	Pass bool `json:"pass"`

	// Cases holds one result per scenario case, in order.
	Cases []CaseResult `json:"cases"`

	// Errors contains expectation mismatches.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
