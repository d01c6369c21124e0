package csvconfig

import "fmt"

// MinRows is two header rows plus at least one data row.
const MinRows = 3

// FormatError reports a tabular source that cannot yield a configuration.
// No partial configuration accompanies it.
type FormatError struct {
	Rows int // logical rows found after tokenizing
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("csvconfig: need two header rows and at least one data row, found %d row(s)", e.Rows)
}
