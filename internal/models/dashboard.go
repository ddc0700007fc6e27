package models

// SystemStats summarises platform-wide counts for the admin dashboard.
type SystemStats struct {
	TotalStudents       int     `json:"total_students"`
	TotalFaculty        int     `json:"total_faculty"`
	PendingFees         int     `json:"pending_fees"`
	PendingFeeAmount    float64 `json:"pending_fee_amount"`
	PendingLeaves       int     `json:"pending_leaves"`
	RecentRegistrations int     `json:"recent_registrations"`
	UpcomingEvents      int     `json:"upcoming_events"`
}
