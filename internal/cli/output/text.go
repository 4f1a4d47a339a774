package output

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// Liner is implemented by values with a line-oriented text form.
type Liner interface {
	Lines() ([]string, error)
}

// TextFormatter writes Liners line by line, strings verbatim, string maps
// as aligned key/value pairs and anything else as compact JSON.
type TextFormatter struct{}

// Format formats data as plain text.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		return nil
	case Liner:
		lines, err := v.Lines()
		if err != nil {
			return err
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	case map[string]string:
		return writePairs(w, v)
	default:
		line, err := compactJSON(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, line)
		return err
	}
}

func writePairs(w io.Writer, m map[string]string) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s:\t%s\n", k, m[k])
	}
	return tw.Flush()
}
