package turn

import "github.com/kailas-cloud/hoover/internal/domain/reply"

// Inbound activity types.
const (
	TypeMessage            = "message"
	TypeConversationUpdate = "conversationUpdate"
)

// Outbound activity types.
const (
	TypeTyping = "typing"
)

// DefaultUserID is the member id chat emulators use; it is never greeted.
const DefaultUserID = "default-user"

// Account identifies a conversation member.
type Account struct {
	ID   string
	Name string
}

// Input is one inbound activity.
type Input struct {
	Type           string
	ID             string
	Text           string
	From           Account
	Recipient      Account
	ConversationID string
	MembersAdded   []Account
}

// Outbound is one activity sent back for a turn.
type Outbound struct {
	Type      string
	ReplyToID string
	Reply     reply.Reply
}
