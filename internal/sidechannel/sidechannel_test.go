package sidechannel

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"capture_collector/internal/event"
)

func writeRecords(t *testing.T, path string, payloads ...[]byte) {
	t.Helper()
	var buf []byte
	for _, p := range payloads {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p)))
		buf = append(buf, p...)
	}
	require.NoError(t, os.WriteFile(path, buf, 0o644))
}

func payloads(events []event.Event) [][]byte {
	var out [][]byte
	for _, ev := range events {
		out = append(out, ev.(event.GpuQueueSubmission).Payload)
	}
	return out
}

func TestDrain_ReadsRecordsInOrderAndDeletesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpu_submissions")
	writeRecords(t, path, []byte("abc"), []byte("wxyz"))

	events := Drain(path, zaptest.NewLogger(t))

	require.Len(t, events, 2)
	assert.Equal(t, [][]byte{[]byte("abc"), []byte("wxyz")}, payloads(events))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file must be deleted after drain")
}

func TestDrain_TruncatedRecordKeepsEarlierOnes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpu_submissions")

	// Two good records, then a length of 10 followed by only 4 bytes.
	var buf []byte
	for _, p := range [][]byte{[]byte("abc"), []byte("wxyz")} {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p)))
		buf = append(buf, p...)
	}
	buf = binary.LittleEndian.AppendUint32(buf, 10)
	buf = append(buf, []byte("shrt")...)
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	events := Drain(path, zaptest.NewLogger(t))

	require.Len(t, events, 2)
	assert.Equal(t, [][]byte{[]byte("abc"), []byte("wxyz")}, payloads(events))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file must be deleted even after a partial drain")
}

func TestDrain_TruncatedLengthPrefixStopsCleanly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpu_submissions")
	writeRecords(t, path, []byte("abc"))

	// Append two stray bytes: not enough for another length prefix.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte{0x01, 0x02})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	events := Drain(path, zaptest.NewLogger(t))

	require.Len(t, events, 1)
	assert.Equal(t, []byte("abc"), events[0].(event.GpuQueueSubmission).Payload)
}

func TestDrain_MissingFileIsNoOp(t *testing.T) {
	events := Drain(filepath.Join(t.TempDir(), "does_not_exist"), zaptest.NewLogger(t))

	assert.Nil(t, events)
}

func TestDrain_EmptyFileYieldsNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpu_submissions")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	events := Drain(path, zaptest.NewLogger(t))

	assert.Empty(t, events)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
