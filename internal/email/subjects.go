package email

const (
	subjectBookingCreated   = "Your e-waste pickup is booked"
	subjectPickupAssigned   = "A pickup agent is on the way"
	subjectAgentAssignment  = "New pickup assigned to you"
	subjectPickupStatusFmt  = "Your pickup is %s"
	subjectPointsAwardedFmt = "You earned %d points"
	subjectPointsRedeemed   = "Your gift code"
)
