// Package conversation turns raw client-supplied message lists into history
// the model API will accept: a bounded window that starts on a user turn,
// plus the isolated current utterance.
package conversation

import (
	"errors"
	"strings"

	"github.com/vocta-football/vocta/models"
)

// MaxHistory caps the number of retained entries so context and per-request
// cost stay bounded no matter what the client resubmits.
const MaxHistory = 15

// ErrNoUtterance means neither the message list nor the explicit message
// field yielded a non-empty current utterance; callers must reject the
// request without invoking the model.
var ErrNoUtterance = errors.New("no resolvable user utterance")

// BuildTurn normalizes the request body into (history, current utterance).
//
// Entries with empty or whitespace-only content are discarded, the most
// recent MaxHistory entries are kept, and the most recent "user" entry
// becomes the current utterance with everything before it as history. When
// no user entry exists, the explicit message field is the utterance and the
// whole cleaned sequence is history. Roles are mapped to the model
// vocabulary ("user" stays, everything else becomes "model"), and leading
// non-user entries are dropped because the model requires conversations to
// begin on a user turn.
func BuildTurn(body models.Chat_Body) ([]models.Chat_Message, string, error) {
	cleaned := make([]models.Chat_Message, 0, len(body.Messages))
	for _, m := range body.Messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		cleaned = append(cleaned, m)
	}

	if len(cleaned) > MaxHistory {
		cleaned = cleaned[len(cleaned)-MaxHistory:]
	}

	lastUser := -1
	for i := len(cleaned) - 1; i >= 0; i-- {
		if cleaned[i].Role == "user" {
			lastUser = i
			break
		}
	}

	var utterance string
	var historyOnly []models.Chat_Message
	if lastUser != -1 {
		utterance = strings.TrimSpace(cleaned[lastUser].Content)
		historyOnly = cleaned[:lastUser]
	} else {
		utterance = strings.TrimSpace(body.Message)
		historyOnly = cleaned
	}

	history := make([]models.Chat_Message, 0, len(historyOnly))
	for _, m := range historyOnly {
		history = append(history, models.Chat_Message{
			Role:    toModelRole(m.Role),
			Content: m.Content,
		})
	}
	history = dropLeadingNonUser(history)

	if utterance == "" {
		return nil, "", ErrNoUtterance
	}
	return history, utterance, nil
}

func toModelRole(role string) string {
	if role == "user" {
		return "user"
	}
	return "model"
}

// dropLeadingNonUser trims history until it begins on a user turn; if no
// user turn exists the history becomes empty.
func dropLeadingNonUser(history []models.Chat_Message) []models.Chat_Message {
	for i, m := range history {
		if m.Role == "user" {
			return history[i:]
		}
	}
	return nil
}
