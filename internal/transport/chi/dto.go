package chi

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the JSON body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// UsageResponse is the JSON body of GET /usage.
type UsageResponse struct {
	Period          string  `json:"period"`
	Provider        string  `json:"provider"`
	PeriodStart     *string `json:"period_start,omitempty"`
	PeriodEnd       *string `json:"period_end,omitempty"`
	TokensUsed      int64   `json:"tokens_used"`
	TokensLimit     int64   `json:"tokens_limit"`
	TokensRemaining int64   `json:"tokens_remaining"`
	Exhausted       bool    `json:"exhausted"`
}

// ChannelAccount identifies a conversation member.
type ChannelAccount struct {
	ID   string `json:"id" validate:"required,max=256"`
	Name string `json:"name,omitempty" validate:"max=256"`
}

// ConversationAccount identifies a conversation.
type ConversationAccount struct {
	ID string `json:"id" validate:"required,max=256"`
}

// ActivityRequest is the inbound activity posted to /api/messages.
type ActivityRequest struct {
	Type         string              `json:"type" validate:"required,max=64"`
	ID           string              `json:"id" validate:"max=256"`
	Text         string              `json:"text" validate:"max=4096"`
	From         ChannelAccount      `json:"from"`
	Recipient    ChannelAccount      `json:"recipient"`
	Conversation ConversationAccount `json:"conversation"`
	MembersAdded []ChannelAccount    `json:"membersAdded" validate:"max=100,dive"`
}

// Activity is one outbound line of the /api/messages stream.
type Activity struct {
	Type             string            `json:"type"`
	ReplyToID        string            `json:"replyToId,omitempty"`
	Text             string            `json:"text,omitempty"`
	TextFormat       string            `json:"textFormat,omitempty"`
	Speak            string            `json:"speak,omitempty"`
	CacheSpeech      bool              `json:"cache-speech,omitempty"`
	AttachmentLayout string            `json:"attachmentLayout,omitempty"`
	Attachments      []Attachment      `json:"attachments,omitempty"`
	SuggestedActions *SuggestedActions `json:"suggestedActions,omitempty"`
}

// Attachment wraps a rich card.
type Attachment struct {
	ContentType string       `json:"contentType"`
	Content     AdaptiveCard `json:"content"`
}

// SuggestedActions are buttons shown under a message.
type SuggestedActions struct {
	Actions []CardAction `json:"actions"`
}

// CardAction is a suggested action button.
type CardAction struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// AdaptiveCard is the subset of the Adaptive Card schema result cards use.
type AdaptiveCard struct {
	Schema  string        `json:"$schema"`
	Type    string        `json:"type"`
	Version string        `json:"version"`
	Body    []CardElement `json:"body"`
}

// CardElement is an Image or TextBlock element.
type CardElement struct {
	Type                string          `json:"type"`
	URL                 string          `json:"url,omitempty"`
	Size                string          `json:"size,omitempty"`
	HorizontalAlignment string          `json:"horizontalAlignment,omitempty"`
	AltText             string          `json:"altText,omitempty"`
	SelectAction        *AdaptiveAction `json:"selectAction,omitempty"`
	Text                string          `json:"text,omitempty"`
	Wrap                bool            `json:"wrap,omitempty"`
	MaxLines            int             `json:"maxLines,omitempty"`
	Separator           bool            `json:"separator,omitempty"`
	Spacing             string          `json:"spacing,omitempty"`
}

// AdaptiveAction is an Adaptive Card action.
type AdaptiveAction struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}
