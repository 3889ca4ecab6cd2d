// Package reply composes the outbound messages of a turn.
package reply

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kailas-cloud/hoover/internal/domain/card"
	"github.com/kailas-cloud/hoover/internal/domain/cryptonym"
)

// Canned texts.
const (
	GreetingText     = "Welcome, investigator! I'm FBI director J. Edgar Hoover. What can I help you find?"
	ApologyText      = "Sorry, I'm having trouble searching the archive right now. Please try again in a moment."
	ErrorText        = "Sorry, it looks like something went wrong."
	NoResultsSpeech  = "Sorry, I didn't find any documents about that."
	DigDeeperTitle   = "Dig Deeper"
	cryptonymPrefix  = "Also, "
	oneDocument      = "a document"
	severalDocuments = "some documents"
)

// Reply is one outbound message.
type Reply struct {
	Cards           []card.Card
	DisplayText     string
	SpeechText      string
	CacheableSpeech bool
	Carousel        bool
	DigDeeperURL    string
	// Suppressed replies are composed but never sent.
	Suppressed bool
}

// Text creates a plain text reply with no speech.
func Text(text string) Reply {
	return Reply{DisplayText: text}
}

// Greeting is sent once to each new conversation member.
func Greeting() Reply {
	return Text(GreetingText)
}

// Apology is sent when the search backend is unavailable.
func Apology() Reply {
	return Reply{DisplayText: ApologyText, SpeechText: ApologyText}
}

// Error is sent when a turn fails unexpectedly.
func Error() Reply {
	return Text(ErrorText)
}

// CryptonymAnswer displays the bolded code name with its definition and speaks the definition.
func CryptonymAnswer(a cryptonym.Answer) Reply {
	return Reply{
		DisplayText: fmt.Sprintf("**%s**: %s", a.Code, a.Definition),
		SpeechText:  a.Definition,
	}
}

type nicety struct {
	trigger string
	text    string
}

// Checked in order against the lowercased question.
var niceties = []nicety{
	{"welcome", "Thank you, it's my pleasure to be here. What can I do for you?"},
	{"hello", "Hello! Good to meet you. What are you interested in today?"},
	{"thank", "You're most welcome. How can I assist you?"},
}

// Nicety returns the canned reply for a social pleasantry. lowered must be lowercase.
func Nicety(lowered string) (Reply, bool) {
	for _, n := range niceties {
		if strings.Contains(lowered, n.trigger) {
			return Reply{DisplayText: n.text, SpeechText: n.text, CacheableSpeech: true}, true
		}
	}
	return Reply{}, false
}

// Composer builds the search results reply.
type Composer struct {
	searchURL string
}

// NewComposer creates a Composer. searchURL is the base of the dig deeper link;
// the escaped query is appended to it.
func NewComposer(searchURL string) *Composer {
	return &Composer{searchURL: searchURL}
}

// Compose describes cards found for query. A turn that already answered with a
// cryptonym only sends results when the search found more than one card.
func (c *Composer) Compose(cards []card.Card, query string, cryptonymHit bool) Reply {
	r := Reply{
		Cards:      cards,
		Suppressed: cryptonymHit && len(cards) <= 1,
	}

	if len(cards) == 0 {
		r.DisplayText = fmt.Sprintf("Sorry, I didn't find any documents matching **%s**.", query)
		r.SpeechText = NoResultsSpeech
		return r
	}

	documents := oneDocument
	if len(cards) > 1 {
		documents = severalDocuments
	}
	r.DisplayText = fmt.Sprintf("I found %s about **%s** you may be interested in.", documents, query)
	r.SpeechText = fmt.Sprintf("I found %s you may be interested in.", documents)
	if cryptonymHit {
		r.SpeechText = cryptonymPrefix + r.SpeechText
	}
	r.CacheableSpeech = true
	r.Carousel = true
	r.DigDeeperURL = c.DigDeeperURL(query)
	return r
}

// DigDeeperURL appends the percent-encoded query to the search site URL.
func (c *Composer) DigDeeperURL(query string) string {
	return c.searchURL + strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}
