package model

// TopOccupationCount is how many occupations a summary lists as its top careers.
const TopOccupationCount = 3

// MajorSummary holds the aggregate labor-market statistics of one major.
//
// Salary and growth means are taken over non-null values only; SalaryCount and
// GrowthCount record how many values contributed. TotalJobs counts a null job
// figure as zero.
type MajorSummary struct {
	Major          string   `json:"major"`
	AverageSalary  float64  `json:"average_salary"`
	MinSalary      float64  `json:"min_salary"`
	MaxSalary      float64  `json:"max_salary"`
	TotalJobs      int64    `json:"total_jobs"`
	AverageGrowth  float64  `json:"average_growth"`
	WeightedGrowth float64  `json:"weighted_growth"`
	CareerCount    int      `json:"career_count"`
	SalaryCount    int      `json:"salary_count"`
	GrowthCount    int      `json:"growth_count"`
	TopOccupations []string `json:"top_occupations"`
}
