package data

import (
	"database/sql"
	"iter"

	"github.com/bluetit/solver/internal/core"
)

// MaxSeries returns the current max_series setting.
func (s *Storage) MaxSeries() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT max_series FROM settings WHERE id = 1").Scan(&n); err != nil {
		return 0, core.Externalf("query max_series", err)
	}
	return n, nil
}

// SetMaxSeries sets max_series; if the current series count exceeds
// n, the oldest series are deleted until the count equals n.
func (s *Storage) SetMaxSeries(n int) error {
	core.Assert(n > 0, "data: SetMaxSeries requires n > 0, got %d", n)
	return s.withWriteTx(func() error {
		if _, err := s.db.Exec("UPDATE settings SET max_series = ? WHERE id = 1", n); err != nil {
			return core.Externalf("update max_series", err)
		}
		return s.evictOldestLocked(n)
	})
}

// evictOldestLocked deletes the oldest series until the series count
// is <= limit. Must be called with the write lock held.
func (s *Storage) evictOldestLocked(limit int) error {
	for {
		var count int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM series").Scan(&count); err != nil {
			return core.Externalf("count series", err)
		}
		if count <= limit {
			return nil
		}
		var oldest SeriesID
		if err := s.db.QueryRow("SELECT id FROM series ORDER BY id ASC LIMIT 1").Scan(&oldest); err != nil {
			return core.Externalf("select oldest series", err)
		}
		if _, err := s.db.Exec("DELETE FROM series WHERE id = ?", oldest); err != nil {
			return core.Externalf("delete oldest series", err)
		}
	}
}

// CreateSeries creates a new series with the given parameter text. If
// the resulting count would exceed max_series, the oldest series are
// deleted first.
func (s *Storage) CreateSeries(params string) (SeriesID, error) {
	var id SeriesID
	err := s.withWriteTx(func() error {
		maxSeries, err := s.MaxSeries()
		if err != nil {
			return err
		}
		var count int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM series").Scan(&count); err != nil {
			return core.Externalf("count series", err)
		}
		if count >= maxSeries {
			if err := s.evictOldestLocked(maxSeries - 1); err != nil {
				return err
			}
		}
		res, err := s.db.Exec("INSERT INTO series (parameters) VALUES (?)", params)
		if err != nil {
			return core.Externalf("insert series", err)
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return core.Externalf("series LastInsertId", err)
		}
		id = SeriesID(rowID)
		return nil
	})
	return id, err
}

// DeleteSeries deletes a series and, via FK cascade, all of its
// frames and arrays. Fails with core.UnknownSeries if id does not
// exist.
func (s *Storage) DeleteSeries(id SeriesID) error {
	return s.withWriteTx(func() error {
		res, err := s.db.Exec("DELETE FROM series WHERE id = ?", id)
		if err != nil {
			return core.Externalf("delete series", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return core.Externalf("series RowsAffected", err)
		}
		if n == 0 {
			return core.Newf(core.UnknownSeries, "series %d does not exist", id)
		}
		return nil
	})
}

// SeriesIDs returns a lazy stream of series IDs in insertion order.
func (s *Storage) SeriesIDs() iter.Seq2[SeriesID, error] {
	return func(yield func(SeriesID, error) bool) {
		rows, err := s.db.Query("SELECT id FROM series ORDER BY id ASC")
		if err != nil {
			yield(0, core.Externalf("query series ids", err))
			return
		}
		defer rows.Close()
		for rows.Next() {
			var id SeriesID
			if err := rows.Scan(&id); err != nil {
				yield(0, core.Externalf("scan series id", err))
				return
			}
			if !yield(id, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(0, core.Externalf("iterate series ids", err))
		}
	}
}

// SeriesLastTimeStep returns the time of the most recently created
// frame in the series, used to enforce CreateFrame's strict
// monotonicity rule. Returns (0, false, nil) for a series with no
// frames yet.
func (s *Storage) SeriesLastTimeStep(id SeriesID) (float64, bool, error) {
	var t float64
	err := s.db.QueryRow("SELECT time FROM frames WHERE series_id = ? ORDER BY time DESC LIMIT 1", id).Scan(&t)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, core.Externalf("query last time step", err)
	}
	return t, true, nil
}
