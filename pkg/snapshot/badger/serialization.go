package badger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/marmos91/mountscope/pkg/snapshot"
)

// Serialization Strategy
// ======================
//
// BadgerDB stores raw bytes, so snapshots are serialized before storing:
//
// 1. JSON Encoding (metadata)
//    - snapshot.Info: name, UUID, hostname, source, timestamp, record count
//    - Human-readable, flexible schema evolution, easy debugging
//
// 2. Gzip (bodies)
//    - Bodies are the exact wire-format lines; the record formatter is
//      byte-stable, so compress-store-decompress-parse round-trips exactly.
//    - Mount tables compress extremely well (repeated option strings and
//      path prefixes), so the compression is worth the CPU even for the
//      local store.

// encodeInfo serializes snapshot metadata to JSON bytes.
func encodeInfo(info snapshot.Info) ([]byte, error) {
	data, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot metadata: %w", err)
	}
	return data, nil
}

// decodeInfo deserializes snapshot metadata from JSON bytes.
func decodeInfo(data []byte) (snapshot.Info, error) {
	var info snapshot.Info
	if err := json.Unmarshal(data, &info); err != nil {
		return snapshot.Info{}, fmt.Errorf("failed to decode snapshot metadata: %w", err)
	}
	return info, nil
}

// encodeBody gzip-compresses a snapshot body.
func encodeBody(body string) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := io.WriteString(zw, body); err != nil {
		return nil, fmt.Errorf("failed to compress snapshot body: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress snapshot body: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeBody decompresses a stored snapshot body.
func decodeBody(data []byte) (string, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decompress snapshot body: %w", err)
	}
	defer zr.Close()

	body, err := io.ReadAll(zr)
	if err != nil {
		return "", fmt.Errorf("failed to decompress snapshot body: %w", err)
	}
	return string(body), nil
}
