package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ReportedError marks an error the user has already been shown as a notice
// or view. main exits non-zero without printing it again.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string {
	return e.Err.Error()
}

func (e *ReportedError) Unwrap() error {
	return e.Err
}

func reported(err error) error {
	if err == nil {
		return nil
	}
	var r *ReportedError
	if errors.As(err, &r) {
		return err
	}
	return &ReportedError{Err: err}
}

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	var r *ReportedError
	return errors.As(err, &r)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
