package ledger

const (
	TopicPaymentRecorded    = "ledger.payment.recorded"
	TopicReservationCreated = "ledger.reservation.created"
	TopicLeadCaptured       = "ledger.lead.captured"
	TopicPropertySubmitted  = "ledger.property.submitted"
)

// Partition key = user_id, so one user's events keep their order.
func PartitionKey(userID string) []byte { return []byte(userID) }
