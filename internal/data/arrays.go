package data

import (
	"bytes"
	"database/sql"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/bluetit/solver/internal/core"
)

// CreateArray registers a new named array within a frame. Fails with
// core.ArrayExists if name is already used in that frame.
func (s *Storage) CreateArray(frameID FrameID, name string, dt DataType) (ArrayID, error) {
	var id ArrayID
	err := s.withWriteTx(func() error {
		var exists int
		err := s.db.QueryRow("SELECT COUNT(*) FROM arrays WHERE frame_id = ? AND name = ?", frameID, name).Scan(&exists)
		if err != nil {
			return core.Externalf("check array exists", err)
		}
		if exists > 0 {
			return core.Newf(core.ArrayExists, "array %q already exists in frame %d", name, frameID)
		}
		res, err := s.db.Exec("INSERT INTO arrays (frame_id, name, type, size) VALUES (?, ?, ?, 0)",
			frameID, name, dt.String())
		if err != nil {
			return core.Externalf("insert array", err)
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return core.Externalf("array LastInsertId", err)
		}
		id = ArrayID(rowID)
		return nil
	})
	return id, err
}

func (s *Storage) arrayType(id ArrayID) (DataType, error) {
	var typeStr string
	err := s.db.QueryRow("SELECT type FROM arrays WHERE id = ?", id).Scan(&typeStr)
	if err == sql.ErrNoRows {
		return DataType{}, core.Newf(core.UnknownArray, "array %d does not exist", id)
	}
	if err != nil {
		return DataType{}, core.Externalf("query array type", err)
	}
	return ParseDataType(typeStr)
}

// ArrayDataOpenWrite returns a byte-sink for array id's contents. On
// Close, size is computed as bytes_written / type.Width() (must
// divide evenly, else core.TruncatedArray). Concurrent readers of the
// same array are blocked until Close.
func (s *Storage) ArrayDataOpenWrite(id ArrayID) (io.WriteCloser, error) {
	dt, err := s.arrayType(id)
	if err != nil {
		return nil, err
	}
	lock := s.arrayLock(id)
	lock.Lock()

	w := &arrayWriter{storage: s, id: id, dataType: dt, lock: lock}
	w.enc, err = zstd.NewWriter(&w.raw)
	if err != nil {
		lock.Unlock()
		return nil, core.Externalf("zstd.NewWriter", err)
	}
	return w, nil
}

// ArrayDataOpenRead returns a byte-stream over the decompressed blob
// of array id. Concurrent writers to the same array are blocked until
// every open reader is closed.
func (s *Storage) ArrayDataOpenRead(id ArrayID) (io.ReadCloser, error) {
	var blob []byte
	err := s.db.QueryRow("SELECT blob FROM arrays WHERE id = ?", id).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, core.Newf(core.UnknownArray, "array %d does not exist", id)
	}
	if err != nil {
		return nil, core.Externalf("query array blob", err)
	}

	lock := s.arrayLock(id)
	lock.RLock()

	dec, err := zstd.NewReader(bytes.NewReader(blob))
	if err != nil {
		lock.RUnlock()
		return nil, core.Externalf("zstd.NewReader", err)
	}
	return &arrayReader{dec: dec, lock: lock}, nil
}
