package engine

import (
	"bytes"
	"io"
	"net/http"
)

// bodyReader is a replayable in-memory request body. Keeping the captured
// bytes alongside the reader lets CaptureBody stay idempotent: repeated
// captures return the same bytes without consuming the reader.
type bodyReader struct {
	*bytes.Reader
	data []byte
}

func newBodyReader(data []byte) *bodyReader {
	return &bodyReader{Reader: bytes.NewReader(data), data: data}
}

// Close implements io.Closer.
func (b *bodyReader) Close() error { return nil }

// CaptureBody reads the request body once and replaces it with a replayable
// in-memory reader, so logging, predicate evaluation and a pass-through
// re-issue all see the same bytes even when the transport-level body is a
// single-read stream. Calling it again returns the already-captured bytes.
// A request without a body yields nil.
func CaptureBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	if br, ok := r.Body.(*bodyReader); ok {
		return br.data, nil
	}
	data, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	if err != nil {
		return nil, err
	}
	r.Body = newBodyReader(data)
	return data, nil
}
