package corpus

import "fmt"

// DataLoadError reports a corpus that could not be turned into an index:
// the source is missing or unreadable, lacks a required column, or yields
// nothing to fit a vocabulary on.
type DataLoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	msg := fmt.Sprintf("load corpus %q: %s", e.Source, e.Reason)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

func loadError(source, reason string, err error) error {
	return &DataLoadError{Source: source, Reason: reason, Err: err}
}
