package model

// WorkItem represents a unit of work for batch workers.
// Index is the query's position in the batch, so results keep input order.
type WorkItem struct {
	Index int
	Query Query
}

// Outcome is what a batch worker produced for one query.
type Outcome struct {
	Query  Query
	Result *Result
	Err    error
}

// Mismatch reports whether the query answered something other than its
// expected value. Failed queries and queries without one never mismatch.
func (o *Outcome) Mismatch() bool {
	return o.Err == nil && o.Result != nil && o.Query.Expect != nil &&
		o.Result.Answer() != *o.Query.Expect
}

// NewWorkItem creates a new WorkItem for the query at index i.
func NewWorkItem(i int, q Query) *WorkItem {
	return &WorkItem{
		Index: i,
		Query: q,
	}
}
