package main

import (
	"fmt"
	"io"

	"github.com/banshee-data/pickplace.report/internal/monitoring"
)

// printReport writes every message to w and returns errReported when the
// report holds an error.
func printReport(w io.Writer, r *monitoring.Report) error {
	for _, m := range r.Messages() {
		fmt.Fprintln(w, m)
	}
	if r.HasErrors() {
		return errReported
	}
	return nil
}
