package models

import "time"

// Enrollment plans for live classes.
const (
	PlanSolo  = "solo"
	PlanSquad = "squad"
)

// LiveClassEnrollment is the enrollments.liveClasses sub-document on the
// user document.
type LiveClassEnrollment struct {
	Enrolled   bool       `json:"enrolled"`
	EnrolledAt *time.Time `json:"enrolledAt,omitempty"`
	PaymentID  string     `json:"paymentId,omitempty"`
	StartDate  string     `json:"startDate,omitempty"`
	Status     string     `json:"status,omitempty"`
	Plan       string     `json:"plan,omitempty"`
	Amount     int        `json:"amount,omitempty"`
}

// EnrollmentProgress is the initial module/week position written into a new
// enrollment record.
type EnrollmentProgress struct {
	CurrentModule  int      `json:"currentModule"`
	CurrentWeek    int      `json:"currentWeek"`
	CompletedWeeks []string `json:"completedWeeks"`
}
