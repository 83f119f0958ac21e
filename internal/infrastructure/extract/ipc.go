package extract

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
)

// SerializeRecord encodes an Arrow record as an IPC stream for staging
// between pipeline tasks.
func SerializeRecord(record arrow.Record) ([]byte, error) {
	var buf bytes.Buffer

	writer := ipc.NewWriter(&buf, ipc.WithSchema(record.Schema()))
	if err := writer.Write(record); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("failed to write Arrow IPC stream: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close Arrow IPC writer: %w", err)
	}

	return buf.Bytes(), nil
}

// DeserializeRecord decodes an IPC stream back into a single Arrow record.
// Multi-batch streams are not produced by SerializeRecord; only the first
// batch is returned.
func DeserializeRecord(data []byte) (arrow.Record, error) {
	reader, err := ipc.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Arrow IPC stream: %w", err)
	}
	defer reader.Release()

	if !reader.Next() {
		if err := reader.Err(); err != nil {
			return nil, fmt.Errorf("failed to read Arrow IPC stream: %w", err)
		}
		return nil, fmt.Errorf("Arrow IPC stream contains no record batches")
	}

	record := reader.Record()
	record.Retain()
	return record, nil
}
