package data

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/bluetit/solver/internal/core"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndDeleteSeries(t *testing.T) {
	s := openTestStorage(t)
	id, err := s.CreateSeries(`{"kernel":"cubic-spline"}`)
	if err != nil {
		t.Fatalf("CreateSeries: %v", err)
	}
	if err := s.DeleteSeries(id); err != nil {
		t.Fatalf("DeleteSeries: %v", err)
	}
	if err := s.DeleteSeries(id); !core.Is(err, core.UnknownSeries) {
		t.Fatalf("expected UnknownSeries on double delete, got %v", err)
	}
}

func TestSeriesIDsInsertionOrder(t *testing.T) {
	s := openTestStorage(t)
	var want []SeriesID
	for i := 0; i < 3; i++ {
		id, err := s.CreateSeries("{}")
		if err != nil {
			t.Fatalf("CreateSeries: %v", err)
		}
		want = append(want, id)
	}
	var got []SeriesID
	for id, err := range s.SeriesIDs() {
		if err != nil {
			t.Fatalf("SeriesIDs: %v", err)
		}
		got = append(got, id)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d ids, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("id %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSetMaxSeriesEvictsOldest(t *testing.T) {
	s := openTestStorage(t)
	if err := s.SetMaxSeries(2); err != nil {
		t.Fatalf("SetMaxSeries: %v", err)
	}
	first, _ := s.CreateSeries("a")
	_, _ = s.CreateSeries("b")
	_, _ = s.CreateSeries("c")

	var ids []SeriesID
	for id, err := range s.SeriesIDs() {
		if err != nil {
			t.Fatalf("SeriesIDs: %v", err)
		}
		ids = append(ids, id)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 series after eviction, got %d: %v", len(ids), ids)
	}
	for _, id := range ids {
		if id == first {
			t.Fatalf("oldest series %v should have been evicted", first)
		}
	}
}

func TestCreateFrameEnforcesStrictMonotonicity(t *testing.T) {
	s := openTestStorage(t)
	seriesID, _ := s.CreateSeries("{}")

	if _, err := s.CreateFrame(seriesID, 0.0); err != nil {
		t.Fatalf("CreateFrame(0.0): %v", err)
	}
	if _, err := s.CreateFrame(seriesID, 0.1); err != nil {
		t.Fatalf("CreateFrame(0.1): %v", err)
	}
	if _, err := s.CreateFrame(seriesID, 0.2); err != nil {
		t.Fatalf("CreateFrame(0.2): %v", err)
	}
	if _, err := s.CreateFrame(seriesID, 0.15); !core.Is(err, core.FrameTimeNotMonotonic) {
		t.Fatalf("expected FrameTimeNotMonotonic inserting 0.15 after 0.2, got %v", err)
	}
}

func TestCreateArrayRejectsDuplicateName(t *testing.T) {
	s := openTestStorage(t)
	seriesID, _ := s.CreateSeries("{}")
	frameID, _ := s.CreateFrame(seriesID, 0.0)

	if _, err := s.CreateArray(frameID, "r", Vector(KindF64, 2)); err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	if _, err := s.CreateArray(frameID, "r", Vector(KindF64, 2)); !core.Is(err, core.ArrayExists) {
		t.Fatalf("expected ArrayExists, got %v", err)
	}
}

func TestArrayDataRoundTrips(t *testing.T) {
	s := openTestStorage(t)
	seriesID, _ := s.CreateSeries("{}")
	frameID, _ := s.CreateFrame(seriesID, 0.0)
	arrayID, err := s.CreateArray(frameID, "m", Scalar(KindF64))
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}

	payload := make([]byte, 8*5) // 5 float64 values
	for i := range payload {
		payload[i] = byte(i)
	}

	w, err := s.ArrayDataOpenWrite(arrayID)
	if err != nil {
		t.Fatalf("ArrayDataOpenWrite: %v", err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := s.ArrayDataOpenRead(arrayID)
	if err != nil {
		t.Fatalf("ArrayDataOpenRead: %v", err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != len(payload) {
		t.Fatalf("got %d bytes, want %d", len(got), len(payload))
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], payload[i])
		}
	}
}

func TestArrayDataOpenWriteRejectsUnevenDivision(t *testing.T) {
	s := openTestStorage(t)
	seriesID, _ := s.CreateSeries("{}")
	frameID, _ := s.CreateFrame(seriesID, 0.0)
	arrayID, err := s.CreateArray(frameID, "m", Scalar(KindF64))
	if err != nil {
		t.Fatalf("CreateArray: %v", err)
	}

	w, err := s.ArrayDataOpenWrite(arrayID)
	if err != nil {
		t.Fatalf("ArrayDataOpenWrite: %v", err)
	}
	if _, err := w.Write([]byte{1, 2, 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); !core.Is(err, core.TruncatedArray) {
		t.Fatalf("expected TruncatedArray for 3 bytes / width 8, got %v", err)
	}
}
