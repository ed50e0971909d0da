package engine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/daystram/reversi/board"
)

const (
	snapshotMagic   = "RVXS"
	snapshotVersion = 1

	snapshotHeaderSize = 4 + 2 + 1 + 1 + 4 + 16
	snapshotRecordSize = 8 + 8 + 1
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// SnapshotHeader describes a single exported level of the exact table.
type SnapshotHeader struct {
	Version   uint16
	Dimension int
	Level     int
	Count     int
	RunID     uuid.UUID
}

// ExportExact writes every exact entry at level as a zstd-compressed blob. Records are stored as big
// endian fingerprint words followed by the outcome byte.
func (s *Store) ExportExact(w io.Writer, level int, runID uuid.UUID) (int, error) {
	if !s.within(level) {
		return 0, fmt.Errorf("%w: level %d outside [0, %d]", ErrInvalidSnapshot, level, s.area)
	}

	var records []byte
	count := 0
	s.exact[level].each(func(fp board.Fingerprint, o Outcome) {
		records = binary.BigEndian.AppendUint64(records, fp[0])
		records = binary.BigEndian.AppendUint64(records, fp[1])
		records = append(records, byte(o))
		count++
	})

	data := make([]byte, 0, snapshotHeaderSize+len(records))
	data = append(data, snapshotMagic...)
	data = binary.BigEndian.AppendUint16(data, snapshotVersion)
	data = append(data, byte(s.dim), byte(level))
	data = binary.BigEndian.AppendUint32(data, uint32(count))
	data = append(data, runID[:]...)
	data = append(data, records...)

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return 0, fmt.Errorf("create zstd encoder: %w", err)
	}
	defer encoder.Close()

	if _, err := w.Write(encoder.EncodeAll(data, nil)); err != nil {
		return 0, err
	}
	return count, nil
}

// ImportExact loads a blob written by ExportExact. Entries already present are kept. The level must
// still be retained by the store.
func (s *Store) ImportExact(r io.Reader) (SnapshotHeader, error) {
	compressed, err := io.ReadAll(r)
	if err != nil {
		return SnapshotHeader{}, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return SnapshotHeader{}, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	data, err := decoder.DecodeAll(compressed, nil)
	if err != nil {
		return SnapshotHeader{}, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	header, err := parseSnapshotHeader(data)
	if err != nil {
		return SnapshotHeader{}, err
	}
	if header.Dimension != s.dim {
		return header, fmt.Errorf("%w: dimension %d, store uses %d", ErrInvalidSnapshot, header.Dimension, s.dim)
	}
	if !s.retains(header.Level) {
		return header, fmt.Errorf("%w: level %d is not retained (exact floor %d)", ErrInvalidSnapshot, header.Level, s.ExactFloor())
	}
	records := data[snapshotHeaderSize:]
	if len(records) != header.Count*snapshotRecordSize {
		return header, fmt.Errorf("%w: %d record bytes for %d entries", ErrInvalidSnapshot, len(records), header.Count)
	}

	for i := 0; i < header.Count; i++ {
		if o := Outcome(records[i*snapshotRecordSize+16]); !o.IsResolved() {
			return header, fmt.Errorf("%w: unknown outcome %d in record %d", ErrInvalidSnapshot, o, i)
		}
	}

	t := s.exact[header.Level]
	for i := 0; i < header.Count; i++ {
		rec := records[i*snapshotRecordSize:]
		fp := board.Fingerprint{binary.BigEndian.Uint64(rec), binary.BigEndian.Uint64(rec[8:])}
		if _, stored := t.loadOrStore(fp, Outcome(rec[16])); stored {
			s.count.Add(1)
		}
	}
	return header, nil
}

func parseSnapshotHeader(data []byte) (SnapshotHeader, error) {
	if len(data) < snapshotHeaderSize || string(data[:4]) != snapshotMagic {
		return SnapshotHeader{}, fmt.Errorf("%w: bad magic", ErrInvalidSnapshot)
	}
	header := SnapshotHeader{
		Version:   binary.BigEndian.Uint16(data[4:]),
		Dimension: int(data[6]),
		Level:     int(data[7]),
		Count:     int(binary.BigEndian.Uint32(data[8:])),
	}
	if header.Version != snapshotVersion {
		return header, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, header.Version)
	}
	copy(header.RunID[:], data[12:28])
	return header, nil
}
