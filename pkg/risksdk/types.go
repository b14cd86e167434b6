package risksdk

// ============================================================================
// Session Types
// ============================================================================

// SessionRequest is the body of POST /v1/sessions.
type SessionRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"admin123"`
}

// SessionResponse is returned by POST /v1/sessions.
type SessionResponse struct {
	// AccessToken is the signed session token
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type" example:"Bearer"`

	// ExpiresIn is the lifetime of the token in seconds
	ExpiresIn int `json:"expires_in" example:"28800"`
}

// ============================================================================
// Prediction Types
// ============================================================================

// PredictionRequest is one loan applicant as accepted by POST /v1/predictions.
type PredictionRequest struct {
	Age             int    `json:"age"`
	Sex             string `json:"sex"`
	Job             int    `json:"job"`
	Housing         string `json:"housing"`
	SavingAccount   string `json:"saving_account"`
	CheckingAccount string `json:"checking_account"`
	CreditAmount    int    `json:"credit_amount"`
	DurationMonths  int    `json:"duration_months"`
}

// PredictionResponse is the verdict for one applicant.
type PredictionResponse struct {
	// Label is "good" or "bad"
	Label string `json:"label" example:"good"`

	// Confidence is the probability of the predicted label in [0, 1]
	Confidence float64 `json:"confidence" example:"0.8115"`

	// ConfidencePercent is Confidence as a truncated whole percentage
	ConfidencePercent int `json:"confidence_percent" example:"81"`
}

// ============================================================================
// Schema Types
// ============================================================================

// SchemaResponse describes the accepted applicant fields.
type SchemaResponse struct {
	// Features is the classifier column order
	Features []string `json:"features"`

	// Categories lists the accepted values of each categorical field
	Categories map[string][]string `json:"categories"`

	// Ranges holds the bounds of each numeric field
	Ranges map[string]Range `json:"ranges"`
}

// Range is an inclusive numeric bound. A nil Max means unbounded.
type Range struct {
	Min int  `json:"min"`
	Max *int `json:"max,omitempty"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of the service's dependencies.
type HealthChecks struct {
	// Classifier indicates whether the model is loaded with the expected schema
	Classifier string `json:"classifier"`

	// Signer indicates the session signing capability status (auth enabled only)
	Signer string `json:"signer,omitempty"`

	// Database indicates the audit database status (audit enabled only)
	Database string `json:"database,omitempty"`
}
