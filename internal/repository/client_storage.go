package repository

import "context"

// ClientStorage is durable key/value storage scoped to one browser client. It
// plays the part of the browser's local storage for the console session.
type ClientStorage interface {
	// Load returns the values present for keys; absent keys are left out.
	Load(ctx context.Context, clientID string, keys ...string) (map[string]string, error)
	// Save writes every value in one atomic step.
	Save(ctx context.Context, clientID string, values map[string]string) error
	// Delete removes keys; missing keys are not an error.
	Delete(ctx context.Context, clientID string, keys ...string) error
}
