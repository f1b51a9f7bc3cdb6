package discovery

import "errors"

var (
	// ErrChatModelRequired indicates an adapter built without a chat model.
	ErrChatModelRequired = errors.New("chat model is required")

	// ErrUnstructured indicates content that is not an institution list.
	ErrUnstructured = errors.New("response is not a structured institution list")
)
