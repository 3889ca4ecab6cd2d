package chi

import (
	"github.com/kailas-cloud/hoover/internal/domain/card"
	"github.com/kailas-cloud/hoover/internal/domain/reply"
	"github.com/kailas-cloud/hoover/internal/usecase/turn"
)

const (
	adaptiveCardContentType = "application/vnd.microsoft.card.adaptive"
	adaptiveCardSchema      = "http://adaptivecards.io/schemas/adaptive-card.json"
	adaptiveCardVersion     = "1.0"
	textFormatMarkdown      = "markdown"
	layoutCarousel          = "carousel"
	actionOpenURL           = "openUrl"
	cardTextMaxLines        = 5
)

// activityFromOutbound renders a turn activity for the wire.
func activityFromOutbound(a turn.Outbound) Activity {
	if a.Type != turn.TypeMessage {
		return Activity{Type: a.Type, ReplyToID: a.ReplyToID}
	}

	r := a.Reply
	act := Activity{
		Type:        turn.TypeMessage,
		ReplyToID:   a.ReplyToID,
		Text:        r.DisplayText,
		TextFormat:  textFormatMarkdown,
		Speak:       r.SpeechText,
		CacheSpeech: r.CacheableSpeech,
	}
	if r.Carousel {
		act.AttachmentLayout = layoutCarousel
	}
	for _, c := range r.Cards {
		act.Attachments = append(act.Attachments, Attachment{
			ContentType: adaptiveCardContentType,
			Content:     resultCard(c),
		})
	}
	if r.DigDeeperURL != "" {
		act.SuggestedActions = &SuggestedActions{Actions: []CardAction{{
			Type:  actionOpenURL,
			Title: reply.DigDeeperTitle,
			Value: r.DigDeeperURL,
		}}}
	}
	return act
}

// resultCard lays out a large centered thumbnail that opens the document above its excerpt.
func resultCard(c card.Card) AdaptiveCard {
	return AdaptiveCard{
		Schema:  adaptiveCardSchema,
		Type:    "AdaptiveCard",
		Version: adaptiveCardVersion,
		Body: []CardElement{
			{
				Type:                "Image",
				URL:                 c.ThumbnailURL,
				Size:                "Large",
				HorizontalAlignment: "Center",
				AltText:             c.Excerpt,
				SelectAction:        &AdaptiveAction{Type: "Action.OpenUrl", URL: c.ActionURL},
			},
			{
				Type:      "TextBlock",
				Text:      c.Excerpt,
				Wrap:      true,
				MaxLines:  cardTextMaxLines,
				Separator: true,
				Spacing:   "Large",
			},
		},
	}
}
