package harvest

import "fmt"

// TransferError marks a path that was never successfully transferred, with
// the error from its final attempt.
type TransferError struct {
	RelPath string
	Err     error
}

func (e *TransferError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("transfer of %s failed", e.RelPath)
	}
	return fmt.Sprintf("transfer of %s failed: %v", e.RelPath, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
