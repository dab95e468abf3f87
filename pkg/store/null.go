package store

import "context"

// NullStore discards every run. It backs `--store none`.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore { return &NullStore{} }

// Save does nothing.
func (NullStore) Save(context.Context, *Run) error { return nil }

// Get always reports a missing run.
func (NullStore) Get(_ context.Context, id string) (*Run, error) { return nil, notFound(id) }

// Latest always reports that nothing is stored.
func (NullStore) Latest(context.Context) (*Run, error) { return nil, notFound("") }

// List returns no runs.
func (NullStore) List(context.Context) ([]Summary, error) { return []Summary{}, nil }

// Close does nothing.
func (NullStore) Close() error { return nil }

var _ Store = (*NullStore)(nil)
