package storage

import (
	"errors"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestStatErrorMapsMissingKey(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound bool
	}{
		{"no such key", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, true},
		{"no such object", minio.ErrorResponse{Code: "NoSuchObject", StatusCode: http.StatusNotFound}, true},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, false},
		{"network", errors.New("dial tcp 127.0.0.1:9000: connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := statError("covers/queen.png", tt.err)
			if tt.notFound {
				assert.ErrorIs(t, err, ErrAssetNotFound)
				return
			}
			assert.NotErrorIs(t, err, ErrAssetNotFound)
			assert.Equal(t, tt.err, errors.Unwrap(err))
			assert.Contains(t, err.Error(), "stat covers/queen.png")
		})
	}
}
