package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	domain "github.com/donaldgifford/marketplace/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printListingsTable(w io.Writer, listings []domain.Listing) error {
	tw := newTabWriter(w)
	tw.writef("ID\tPUBLISHED\tTITLE\tCITY\tPHONE\tOWNER\n")
	for i := range listings {
		l := &listings[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID,
			l.PublishedOn(),
			truncate(l.Title, 40),
			l.City,
			l.PhoneNumber,
			l.UserName,
		)
	}
	return tw.finish()
}

func printListingDetail(w io.Writer, l *domain.Listing) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", l.ID)
	tw.writef("Published:\t%s\n", l.PublishedOn())
	tw.writef("Title:\t%s\n", l.Title)
	tw.writef("Description:\t%s\n", l.Description)
	tw.writef("Location:\t%s\n", l.Location)
	tw.writef("City:\t%s\n", l.City)
	tw.writef("Phone:\t%s\n", l.PhoneNumber)
	tw.writef("Owner:\t%s (%s)\n", l.UserName, l.UserID)
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
