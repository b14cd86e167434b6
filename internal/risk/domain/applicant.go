package domain

// Categorical field names as they appear in the fitted encoder tables and
// the classifier's training columns.
const (
	FieldAge             = "Age"
	FieldSex             = "Sex"
	FieldJob             = "Job"
	FieldHousing         = "Housing"
	FieldSavingAccounts  = "Saving accounts"
	FieldCheckingAccount = "Checking account"
	FieldCreditAmount    = "Credit amount"
	FieldDuration        = "Duration"
)

// Allowed ranges for the numeric applicant fields.
const (
	MinAge = 18
	MaxAge = 80
	MinJob = 0
	MaxJob = 3
)

// Allowed values for the categorical applicant fields, in form order.
var (
	SexValues             = []string{"male", "female"}
	HousingValues         = []string{"own", "rent", "free"}
	SavingAccountValues   = []string{"little", "moderate", "quite rich", "rich"}
	CheckingAccountValues = []string{"little", "moderate", "rich"}
)

// JobLabels names each job skill level.
var JobLabels = [...]string{"Unskilled", "Skilled", "Highly Skilled", "Management"}

// Applicant is one loan application as submitted by a user.
type Applicant struct {
	Age             int    `json:"age" example:"30"`
	Sex             string `json:"sex" example:"male"`
	Job             int    `json:"job" example:"1"`
	Housing         string `json:"housing" example:"own"`
	SavingAccount   string `json:"saving_account" example:"little"`
	CheckingAccount string `json:"checking_account" example:"little"`
	CreditAmount    int    `json:"credit_amount" example:"1000"`
	DurationMonths  int    `json:"duration_months" example:"12"`
}

// Validate checks the numeric fields. Categorical values are checked against
// the encoder tables when features are built.
func (a Applicant) Validate() error {
	switch {
	case a.Age < MinAge || a.Age > MaxAge:
		return &ValidationError{Field: FieldAge, Reason: "must be between 18 and 80"}
	case a.Job < MinJob || a.Job > MaxJob:
		return &ValidationError{Field: FieldJob, Reason: "must be between 0 and 3"}
	case a.CreditAmount < 0:
		return &ValidationError{Field: FieldCreditAmount, Reason: "must not be negative"}
	case a.DurationMonths < 0:
		return &ValidationError{Field: FieldDuration, Reason: "must not be negative"}
	}
	return nil
}

// JobLabel returns the display name of the applicant's job level.
func (a Applicant) JobLabel() string {
	if a.Job < MinJob || a.Job > MaxJob {
		return ""
	}
	return JobLabels[a.Job]
}

// FeatureCount is the width of the classifier input row.
const FeatureCount = 8

// Features is one classifier input row in FeatureOrder.
type Features [FeatureCount]float64
