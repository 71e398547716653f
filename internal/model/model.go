// SPDX-License-Identifier: AGPL-3.0-only
package model

// DefaultModel is used when a tool call does not specify a model
const DefaultModel = "gemini-2.5-flash"

// KnownModels is the closed set of Gemini model identifiers accepted in
// tool requests. Free text outside this set is rejected by validation.
var KnownModels = []string{
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
}

// IsKnownModel reports whether name is in the known model set
func IsKnownModel(name string) bool {
	for _, m := range KnownModels {
		if m == name {
			return true
		}
	}
	return false
}

// Roles accepted in chat messages. Gemini uses "model" where other APIs
// use "assistant".
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is a single role-tagged text turn sent upstream. Order within a
// conversation is preserved; role alternation is not enforced.
type Message struct {
	Role string
	Text string
}

// Generation is a fully translated upstream request: what to send, to which
// model, and with which sampling settings.
type Generation struct {
	Messages        []Message
	Model           string
	Temperature     float64
	MaxOutputTokens int
}
