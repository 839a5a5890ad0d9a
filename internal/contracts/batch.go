package contracts

import "fmt"

// ItemFailure records one entity of a batch that could not be computed
type ItemFailure struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Error string `json:"error"`
	Err   error  `json:"-"`
}

func (f ItemFailure) String() string {
	return fmt.Sprintf("%s (%d): %s", f.Name, f.ID, f.Error)
}

// Batch is the result of a per-entity computation over many entities.
// A failing entity lands in Failures and never aborts the rest.
type Batch[T any] struct {
	Items    []T           `json:"items"`
	Failures []ItemFailure `json:"failures,omitempty"`
}

// Add appends a successful item
func (b *Batch[T]) Add(item T) {
	b.Items = append(b.Items, item)
}

// Fail records a failed entity
func (b *Batch[T]) Fail(id int64, name string, err error) {
	f := ItemFailure{ID: id, Name: name, Err: err}
	if err != nil {
		f.Error = err.Error()
	}
	b.Failures = append(b.Failures, f)
}

// HasFailures reports whether any entity failed
func (b *Batch[T]) HasFailures() bool {
	return len(b.Failures) > 0
}
