package model

// OccupationRecord is one row of the BLS occupation dataset.
// Numeric fields are nil when the source cell was empty or unparseable.
type OccupationRecord struct {
	Name           string   `json:"occupation_name"`
	MedianSalary   *float64 `json:"median_salary,omitempty"`
	Jobs           *int64   `json:"number_of_jobs,omitempty"`
	GrowthRate     *float64 `json:"growth_rate,omitempty"`
	EntryEducation string   `json:"entry_level_education"`
	Description    string   `json:"description"`

	// Raw display strings as they appeared in the source file.
	SalaryText  string `json:"median_pay_annual,omitempty"`
	JobsText    string `json:"number_of_jobs_text,omitempty"`
	OutlookText string `json:"job_outlook,omitempty"`

	// Position is the zero-based row order in the source file.
	Position int `json:"-"`
}

// SalaryOr returns the median salary or def when it is null.
func (r OccupationRecord) SalaryOr(def float64) float64 {
	if r.MedianSalary == nil {
		return def
	}
	return *r.MedianSalary
}

// JobsOr returns the job count or def when it is null.
func (r OccupationRecord) JobsOr(def int64) int64 {
	if r.Jobs == nil {
		return def
	}
	return *r.Jobs
}

// GrowthOr returns the growth rate or def when it is null.
func (r OccupationRecord) GrowthOr(def float64) float64 {
	if r.GrowthRate == nil {
		return def
	}
	return *r.GrowthRate
}

// Float64 returns a pointer to v. Used to build nullable fields.
func Float64(v float64) *float64 { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }
