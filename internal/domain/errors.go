package domain

import "fmt"

// ValidationError reports a malformed or economically inconsistent
// request. It is always surfaced before any simulation runs and is
// never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// DatasetGapError reports a simulation window that exceeds the
// available historical samples. In a batch it is fatal only for the
// requesting member; siblings keep running.
type DatasetGapError struct {
	Protocol  Protocol
	Requested int
	Available int
}

func (e *DatasetGapError) Error() string {
	return fmt.Sprintf("dataset gap: %s history has %d samples, request needs %d",
		e.Protocol, e.Available, e.Requested)
}
