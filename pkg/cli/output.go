package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/DeBrosOfficial/indexer-client/pkg/errors"
)

// render writes v as indented JSON or through table, depending on format.
func render(out io.Writer, format string, v any, table func(w *tabwriter.Writer)) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "", "table":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		table(w)
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q (expected table or json)", format)
	}
}

func field(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "%s\t%v\n", labelStyle.Render(label), value)
}

// reportError prints err followed by a hint derived from its category.
func reportError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: ")+err.Error())
	if hint := errorHint(err); hint != "" {
		fmt.Fprintln(w, labelStyle.Render("Hint: ")+hint)
	}
}

func errorHint(err error) string {
	if errors.IsCancelled(err) {
		return ""
	}

	var hint string
	switch errors.GetCategory(errors.GetErrorCode(err)) {
	case errors.CategoryAuth:
		hint = "the indexer rejected the signature; check " + PrivateKeyEnv
	case errors.CategoryNetwork:
		hint = "the indexer could not be reached; check --base-url"
	case errors.CategoryTimeout:
		hint = "the indexer did not answer in time"
	}

	if errors.ShouldRetry(err) {
		if hint != "" {
			hint += "; "
		}
		hint += "the failure is temporary and the command can be run again"
	}
	return hint
}
