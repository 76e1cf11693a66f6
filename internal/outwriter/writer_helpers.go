package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/docgap/docgap/internal/contract"
)

// createFloatFormatter builds the float formatter for the configured precision.
func createFloatFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
}

// writeWithFile opens the configured output file (or stdout), invokes the
// writer function and reports where the output went when it was a file.
func writeWithFile(filePath string, write func(io.Writer) error, doneMsg string) error {
	out, err := contract.SelectOutputFile(filePath)
	if err != nil {
		return fmt.Errorf("cannot open output file %q: %w", filePath, err)
	}
	isFile := out != os.Stdout
	if isFile {
		defer func() { _ = out.Close() }()
	}
	if err := write(out); err != nil {
		return err
	}
	if isFile {
		fmt.Printf("%s to %s\n", doneMsg, filePath)
	}
	return nil
}

// writeJSON marshals a value with indentation and writes it.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
