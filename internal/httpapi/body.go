package httpapi

import (
	"errors"
	"io"
	"net/http"
)

const defaultMaxBodyBytes = 1 << 20 // 1 MiB

var (
	errBodyRead        = errors.New("failed to read body")
	errPayloadTooLarge = errors.New("payload too large")
)

func readBody(r *http.Request, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	defer r.Body.Close()
	lr := io.LimitReader(r.Body, limit+1)

	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, errBodyRead
	}
	if int64(len(b)) > limit {
		return nil, errPayloadTooLarge
	}
	return b, nil
}
