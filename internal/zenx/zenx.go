// Package zenx provides the core abstractions for the chat client.
// This package defines the Completer interface that the completion endpoint
// client implements, and the message and notification types shared by the
// conversation session and the user interfaces.
package zenx

import (
	"context"
	"fmt"
	"strings"
)

// Completer defines the interface for a chat-completion endpoint.
//
// Example usage:
//
//	client := openrouter.NewClient(cfg)
//	reply, err := client.Complete(ctx, token, []zenx.ChatMessage{
//	    zenx.NewSystemMessage("Be concise."),
//	    zenx.NewUserMessage("Hello"),
//	})
type Completer interface {
	// Complete sends the full message list and returns the text of the
	// first reply choice. credential is sent as a bearer token.
	Complete(ctx context.Context, credential string, messages []ChatMessage) (string, error)
}

// ParseModelID parses an OpenRouter model identifier in "vendor/model" format.
// The model part may carry a ":variant" suffix, which is kept.
// Returns (vendor, model, error).
//
// Example:
//
//	vendor, model, err := ParseModelID("deepseek/deepseek-r1-0528:free")
//	// vendor = "deepseek", model = "deepseek-r1-0528:free"
func ParseModelID(id string) (string, string, error) {
	parts := strings.SplitN(id, "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid model format: %s (expected format: vendor/model, e.g., deepseek/deepseek-r1-0528:free)", id)
	}

	vendor := strings.TrimSpace(parts[0])
	model := strings.TrimSpace(parts[1])

	if vendor == "" || model == "" || strings.HasPrefix(model, ":") {
		return "", "", fmt.Errorf("vendor and model cannot be empty")
	}

	return vendor, model, nil
}

// FormatModelID formats vendor and model into "vendor/model" format.
func FormatModelID(vendor, model string) string {
	return fmt.Sprintf("%s/%s", vendor, model)
}
