package repository

// Factory describes access to the local client-state repositories.
type Factory interface {
	Sessions() SessionRepository
	Drafts() DraftRepository
	Payments() PendingPaymentRepository
}
