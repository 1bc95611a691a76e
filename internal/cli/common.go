package cli

import (
	"encoding/json"
	"errors"
	"os"
)

// ErrDivergent is returned by compare when the plans are not
// equivalent. It maps to exit code 1 without an extra error line,
// since the mismatch report was already printed.
var ErrDivergent = errors.New("plans diverge")

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
