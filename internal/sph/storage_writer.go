package sph

import (
	"io"

	"github.com/bluetit/solver/internal/data"
	"github.com/bluetit/solver/internal/particle"
)

// StorageWriter is the sink for spec.md §6's particle snapshots, backed
// by internal/data.Storage. It satisfies both sph.FrameWriter (the
// per-step sink Integrator.Step calls) and particle.SnapshotSink (the
// per-field sink Array.WriteSnapshot calls), joining the two through
// the frame currently being written.
type StorageWriter struct {
	Storage  *data.Storage
	SeriesID data.SeriesID
	// Fields restricts which schema fields are persisted; nil persists
	// every field WriteSnapshot offers.
	Fields map[string]bool

	frame data.FrameID
}

// WriteFrame creates one frame at time and pushes the array's current
// field set into it via Array.WriteSnapshot, satisfying sph.FrameWriter.
func (w *StorageWriter) WriteFrame(time float64, arr *particle.Array[float64]) error {
	frameID, err := w.Storage.CreateFrame(w.SeriesID, time)
	if err != nil {
		return err
	}
	w.frame = frameID
	return arr.WriteSnapshot(w)
}

// PushField implements particle.SnapshotSink: it creates one array per
// field in the current frame and streams r's bytes through
// ArrayDataOpenWrite. A field absent from w.Fields (when non-nil) is
// silently skipped, exercising spec.md §6's "the writer is free to
// reject" allowance without aborting the rest of the snapshot.
func (w *StorageWriter) PushField(name string, dt data.DataType, size int, r io.Reader) error {
	if w.Fields != nil && !w.Fields[name] {
		return nil
	}
	arrayID, err := w.Storage.CreateArray(w.frame, name, dt)
	if err != nil {
		return err
	}
	out, err := w.Storage.ArrayDataOpenWrite(arrayID)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
