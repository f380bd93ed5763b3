package flow

import "errors"

var (
	// ErrGatekeeperRequired is returned when a gatekeeper is not provided.
	ErrGatekeeperRequired = errors.New("gatekeeper required")

	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")
)
