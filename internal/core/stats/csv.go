package stats

import (
	"os"

	"github.com/gocarina/gocsv"

	"github.com/bluetit/solver/internal/core"
)

// WriteCSV writes a Summary's per-phase rows to path, one row per
// phase, via gocsv — the same flat-row shape the teacher's
// PerfStatsCSV/ToCSV used for spreadsheet-friendly performance export.
func (s Summary) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return core.Externalf("os.Create", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			core.Warn("stats: close csv file", "path", path, "error", cerr)
		}
	}()

	if err := gocsv.MarshalFile(s.Rows(), f); err != nil {
		return core.Externalf("gocsv.MarshalFile", err)
	}
	return nil
}
