package domain

// SubmitCommand carries a send intent from the presentation layer.
// SenderIsAdmin is passed explicitly; there is no ambient viewer state.
type SubmitCommand struct {
	ConversationKey string
	Sender          string
	SenderIsAdmin   bool
	Text            string
}

// SubmitOutcome is the result of handling a SubmitCommand.
type SubmitOutcome int

const (
	// SubmitSent means the record was persisted and a fresh snapshot follows.
	SubmitSent SubmitOutcome = iota
	// SubmitRejected means the trimmed text was empty; nothing was stored.
	SubmitRejected
	// SubmitFailed means the storage transaction could not commit.
	SubmitFailed
)

func (o SubmitOutcome) String() string {
	switch o {
	case SubmitSent:
		return "sent"
	case SubmitRejected:
		return "rejected"
	default:
		return "failed"
	}
}
