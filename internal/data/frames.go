package data

import "github.com/bluetit/solver/internal/core"

// CreateFrame appends a frame at the given time to a series. Fails
// with core.FrameTimeNotMonotonic if time is not strictly greater
// than the series' last recorded frame time.
func (s *Storage) CreateFrame(seriesID SeriesID, time float64) (FrameID, error) {
	var id FrameID
	err := s.withWriteTx(func() error {
		last, hasLast, err := s.SeriesLastTimeStep(seriesID)
		if err != nil {
			return err
		}
		if hasLast && time <= last {
			return core.Newf(core.FrameTimeNotMonotonic,
				"frame time %v must be strictly greater than the last recorded time %v", time, last)
		}
		res, err := s.db.Exec("INSERT INTO frames (series_id, time) VALUES (?, ?)", seriesID, time)
		if err != nil {
			return core.Externalf("insert frame", err)
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return core.Externalf("frame LastInsertId", err)
		}
		id = FrameID(rowID)
		return nil
	})
	return id, err
}
