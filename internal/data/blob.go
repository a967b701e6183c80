package data

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/bluetit/solver/internal/core"
)

// arrayWriter is the byte-sink returned by ArrayDataOpenWrite. It
// streams writes through a zstd.Encoder into an in-memory buffer
// (modernc.org/sqlite exposes no incremental BLOB I/O like
// sqlite3_blob_open, so the streaming protocol's "buffer up to
// in_chunk, emit frames" behavior happens inside the zstd encoder
// itself rather than against the row directly) and persists the
// compressed bytes to the row on Close.
type arrayWriter struct {
	storage  *Storage
	id       ArrayID
	dataType DataType
	raw      bytes.Buffer
	enc      *zstd.Encoder
	lock     *sync.RWMutex
	written  int64
}

func (w *arrayWriter) Write(p []byte) (int, error) {
	n, err := w.enc.Write(p)
	if err != nil {
		return n, core.Externalf("zstd encode", err)
	}
	w.written += int64(n)
	return n, nil
}

func (w *arrayWriter) Close() error {
	defer w.lock.Unlock()

	if err := w.enc.Close(); err != nil {
		return core.Externalf("zstd encoder close", err)
	}

	width := w.dataType.Width()
	if width <= 0 || w.written%int64(width) != 0 {
		return core.Newf(core.TruncatedArray,
			"array %d: %d bytes does not divide evenly by type width %d", w.id, w.written, width)
	}
	size := w.written / int64(width)

	return w.storage.withWriteTx(func() error {
		_, err := w.storage.db.Exec("UPDATE arrays SET blob = ?, size = ? WHERE id = ?", w.raw.Bytes(), size, w.id)
		if err != nil {
			return core.Externalf("write array blob", err)
		}
		return nil
	})
}

// arrayReader is the byte-stream returned by ArrayDataOpenRead,
// pulling decompressed bytes on demand from a zstd.Decoder over the
// stored blob. A truncated underlying stream (no terminal zstd frame)
// surfaces as core.TruncatedStream rather than a bare decode error.
type arrayReader struct {
	dec  *zstd.Decoder
	lock *sync.RWMutex
}

func (r *arrayReader) Read(p []byte) (int, error) {
	n, err := r.dec.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, core.Wrapf(core.TruncatedStream, err, "array blob stream ended without a terminal frame")
	}
	return n, err
}

func (r *arrayReader) Close() error {
	r.dec.Close()
	r.lock.RUnlock()
	return nil
}
