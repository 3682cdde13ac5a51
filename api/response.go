package api

// Complete, non-streaming report of a grading run

// StudentReport is everything graded for one student
type StudentReport struct {
	Student   Student `json:"student"`
	Submitted bool    `json:"submitted"`
	File      *string `json:"file,omitempty"`
	Collision bool    `json:"collision"`

	Passed          int    `json:"passed"`
	Total           int    `json:"total"`
	Infos           int    `json:"infos"`
	AdditionalInfos int    `json:"additional_infos"`
	Status          string `json:"status"`

	// Set when the submission could not be run
	ErrorMessage *string `json:"error_message,omitempty"`

	Results []TestResult `json:"results"`
}

// GradingReport is a complete report for one assignment
type GradingReport struct {
	RunId      string `json:"run_id"`
	Assignment string `json:"assignment"`
	Suite      string `json:"suite"`

	StartedTime  string  `json:"started_time"`
	FinishedTime *string `json:"finished_time,omitempty"`

	// Ordered by login id
	Students []StudentReport `json:"students"`

	// Groups of students who submitted identical files
	Collisions [][]Student `json:"collisions"`
}
