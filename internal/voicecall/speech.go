// Package voicecall holds what is spoken back into a call, shared by the lookup
// processor and the call-control clients.
package voicecall

import (
	"errors"
	"fmt"
	"html"

	"github.com/nexmo-community/dial-ynab/internal/balances"
)

const (
	Language = "en-GB"
	Currency = "GBP"

	AnswerPrompt = "Please say the name of the category you would like the balance for"
)

// ErrCallNotActive is returned by call-control clients when the call leg has already ended.
var ErrCallNotActive = errors.New("call leg is not active")

// Speech is an utterance rendered for both SSML and plain-text speech engines.
type Speech struct {
	SSML     string
	Text     string
	Language string
}

// BalanceSpeech announces a category's available balance.
func BalanceSpeech(record balances.Record) Speech {
	amount := record.Balance.StringFixed(2)
	name := html.EscapeString(record.Name)
	return Speech{
		SSML: fmt.Sprintf(`<speak>%s has <say-as interpret-as="vxml:currency">%s%s</say-as> available</speak>`,
			name, Currency, amount),
		Text:     fmt.Sprintf("%s has %s pounds available", record.Name, amount),
		Language: Language,
	}
}

// PlainSpeech wraps a sentence that needs no markup.
func PlainSpeech(text string) Speech {
	return Speech{
		SSML:     "<speak>" + html.EscapeString(text) + "</speak>",
		Text:     text,
		Language: Language,
	}
}

var (
	BalancesUnavailableSpeech = PlainSpeech("Sorry, I couldn't retrieve your balances right now. Please try again later.")
	NoCategoriesSpeech        = PlainSpeech("I couldn't find any budget categories.")
)
