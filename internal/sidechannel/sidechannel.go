// Package sidechannel drains the out-of-band file written by an external
// cooperating process (a driver-level GPU event interceptor) at shutdown.
//
// The file is a sequence of records, each a 4-byte little-endian length
// followed by that many payload bytes, with no trailing delimiter. The drain
// runs once per session, folds the records into the final flushed batch, and
// deletes the file so the next session does not re-read stale data.
package sidechannel

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"go.uber.org/zap"

	"capture_collector/internal/event"
)

// Drain reads every well-formed record from the file at path and returns
// them as GPU queue-submission events, in file order.
//
// A missing or unopenable file is not an error: the drain is a no-op and
// returns nil. A truncated length prefix or short payload read ends the
// drain at that point; records already read are kept. In every case where
// the file was opened, it is deleted afterwards, even after a partial drain.
func Drain(path string, logger *zap.Logger) []event.Event {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}

	events := readRecords(bufio.NewReader(file), logger)

	if err := file.Close(); err != nil {
		logger.Warn("closing side-channel file", zap.Error(err))
	}
	if err := os.Remove(path); err != nil {
		logger.Warn("removing side-channel file", zap.String("path", path), zap.Error(err))
	}

	return events
}

// readRecords decodes length-prefixed records until end-of-file or the first
// malformed frame.
func readRecords(r io.Reader, logger *zap.Logger) []event.Event {
	var events []event.Event
	for {
		var length uint32
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			if err != io.EOF {
				logger.Debug("side-channel drain stopped on malformed length prefix", zap.Error(err))
			}
			return events
		}

		payload := make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			// Truncated record: keep what was fully read before it.
			logger.Debug("side-channel drain stopped on truncated record",
				zap.Uint32("expected_len", length), zap.Error(err))
			return events
		}

		events = append(events, event.GpuQueueSubmission{Payload: payload})
	}
}
