package domain

const (
	RoleUser  = "USER"
	RoleOwner = "OWNER"
	RoleAdmin = "ADMIN"
)

const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

const (
	PaymentCreated  = "CREATED"
	PaymentCaptured = "CAPTURED"
	PaymentFailed   = "FAILED"
)

const (
	RefundPending   = "PENDING"
	RefundCompleted = "COMPLETED"
	RefundFailed    = "FAILED"
)

const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// Webhook event processing outcomes recorded on the audit row.
const (
	EventReceived  = "RECEIVED"
	EventApplied   = "APPLIED"
	EventDuplicate = "DUPLICATE"
	EventIgnored   = "IGNORED"
	EventFlagged   = "FLAGGED"
)

const (
	ActorUser   = "USER"
	ActorOwner  = "OWNER"
	ActorAdmin  = "ADMIN"
	ActorSystem = "SYSTEM"
)

const (
	CancelReasonPaymentFailed  = "payment failed"
	CancelReasonPaymentTimeout = "payment timeout"
)

// Popular-venue ranking strategies. The source data supports either; the
// listing endpoint takes the strategy as a parameter.
const (
	RankByCourts   = "courts"
	RankByBookings = "bookings"
)

const Currency = "INR"
