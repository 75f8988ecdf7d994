package pbf

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rosmosis/pbf/model"
)

func TestNewEncoderFailsOnInvalidStorePath(t *testing.T) {
	invalidStore := filepath.Join(t.TempDir(), "missing", "store")

	enc, err := NewEncoder(&bytes.Buffer{}, WithStorePath(invalidStore))
	if err == nil {
		t.Fatal("expected NewEncoder to fail for invalid store path")
	}
	if enc != nil {
		t.Fatal("expected nil encoder when setup fails")
	}
	if !errors.Is(err, ErrCreateTempFile) {
		t.Fatalf("expected ErrCreateTempFile, got: %v", err)
	}
}

func TestEncodeBatchAfterCloseReturnsErrWriterFinalized(t *testing.T) {
	var out bytes.Buffer

	enc, err := NewEncoder(&out)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	if err := enc.Encode(&model.Node{ID: 1}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	enc.Close()

	if err := enc.Encode(&model.Node{ID: 2}); !errors.Is(err, ErrWriterFinalized) {
		t.Fatalf("expected ErrWriterFinalized, got: %v", err)
	}
}
