package report

import (
	"fmt"
	"io"
	"strings"
)

// WriteText prints a plain-text rendition of rep, used by the CLI
func WriteText(w io.Writer, rep *Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Student %d\n", rep.Selection.Index)
	fmt.Fprintf(&b, "  %s\n", plain(rep.Alert.Message))
	fmt.Fprintf(&b, "  %s\n\n", plain(rep.Alert.Recommendation))

	fmt.Fprintf(&b, "%s\n", rep.Pie.Title)
	for _, s := range rep.Pie.Slices {
		fmt.Fprintf(&b, "  %-12s %d\n", s.Label, s.Count)
	}
	b.WriteString("\n")

	if rep.Trend != nil {
		fmt.Fprintf(&b, "%s\n", rep.Trend.Title)
		for _, p := range rep.Trend.Points {
			fmt.Fprintf(&b, "  %-12s %.2f\n", p.Label, p.Value)
		}
	} else {
		b.WriteString(rep.TrendNote + "\n")
	}
	b.WriteString("\n")

	if rep.Absences != nil {
		fmt.Fprintf(&b, "%s\n", rep.Absences.Title)
		for _, bar := range rep.Absences.Bars {
			fmt.Fprintf(&b, "  %-12s %.2f (n=%d)\n", bar.Label, bar.Value, bar.Count)
		}
		b.WriteString("\n")
	}

	for _, line := range rep.Summary.Lines {
		fmt.Fprintf(&b, "- %s\n", plain(line))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func plain(md string) string {
	return strings.ReplaceAll(md, "**", "")
}
