package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/jwlam-hk/interview-scheduler/internal/models"
)

func printBookings(tw *tabwriter.Writer, snap models.Snapshot) {
	if _, err := fmt.Fprintln(tw, "Name\tID\tDate\tTime\tNotes\tLast Updated"); err != nil {
		panic(err)
	}

	for _, b := range snap {
		updated := ""
		if !b.LastUpdated.IsZero() {
			updated = b.LastUpdated.Format("2006-01-02 15:04:05")
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.Name, b.ID, b.Date, b.Time, b.Notes, updated); err != nil {
			panic(err)
		}
	}

	if _, err := fmt.Fprintf(tw, "\nTotal bookings: %d\n", len(snap)); err != nil {
		panic(err)
	}
}
