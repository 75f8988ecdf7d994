package pbf

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/rosmosis/pbf/internal/encoder"
)

const (
	DefaultBlobCompression = encoder.ZLIB

	tempFileName = "entities.pbf"
)

// encoderOptions provides optional configuration parameters for Encoder construction.
type encoderOptions struct {
	compression encoder.BlobCompression
	useDense    bool
	nCPU        uint16 // the number of CPUs to use for background processing

	store string
	wrtr  *os.File

	requiredFeatures                 []string
	optionalFeatures                 []string
	writingProgram                   string
	source                           string
	osmosisReplicationTimestamp      time.Time
	osmosisReplicationSequenceNumber int64
	osmosisReplicationBaseURL        string
}

// EncoderOption configures how we set up the encoder.
type EncoderOption func(*encoderOptions)

// WithCompression specifies the compression algorithm to use when encoding
// PBF blobs.  The default is ZLIB.
func WithCompression(compression encoder.BlobCompression) EncoderOption {
	return func(o *encoderOptions) {
		o.compression = compression
	}
}

// WithUseDense controls whether nodes are written as DenseNodes (the
// default) or as a plain Node array. DenseNodes is smaller on the wire and
// is what every common PBF writer produces; the plain array exists for
// interoperability with readers that don't support DenseNodes.
func WithUseDense(useDense bool) EncoderOption {
	return func(o *encoderOptions) {
		o.useDense = useDense
	}
}

// WithStorePath lets you specify where to temporarily store entities.
func WithStorePath(path string) EncoderOption {
	return func(o *encoderOptions) {
		o.store = path
	}
}

// WithRequiredFeatures sets the required features of the PBF header.
func WithRequiredFeatures(features ...string) EncoderOption {
	return func(o *encoderOptions) {
		o.requiredFeatures = append(o.requiredFeatures, features...)
	}
}

// WithOptionalFeatures sets the optional features of the PBF header.
func WithOptionalFeatures(features ...string) EncoderOption {
	return func(o *encoderOptions) {
		o.optionalFeatures = append(o.optionalFeatures, features...)
	}
}

// WithWritingProgram sets the writing program of the PBF header.
func WithWritingProgram(program string) EncoderOption {
	return func(o *encoderOptions) {
		o.writingProgram = program
	}
}

// WithSource sets the source of the PBF header.
func WithSource(source string) EncoderOption {
	return func(o *encoderOptions) {
		o.source = source
	}
}

// WithOsmosisReplicationTimestamp sets the Osmosis replication timestamp of
// the PBF header.
func WithOsmosisReplicationTimestamp(timestamp time.Time) EncoderOption {
	return func(o *encoderOptions) {
		o.osmosisReplicationTimestamp = timestamp
	}
}

// WithOsmosisReplicationSequenceNumber sets the Osmosis replication sequence
// number of the PBF header.
func WithOsmosisReplicationSequenceNumber(sequenceNumber int64) EncoderOption {
	return func(o *encoderOptions) {
		o.osmosisReplicationSequenceNumber = sequenceNumber
	}
}

// WithOsmosisReplicationBaseURL sets the Osmosis replication base URL of the
// PBF header.
func WithOsmosisReplicationBaseURL(url string) EncoderOption {
	return func(o *encoderOptions) {
		o.osmosisReplicationBaseURL = url
	}
}

// defaultEncoderConfig provides a default configuration for encoders.
var defaultEncoderConfig = encoderOptions{
	compression: DefaultBlobCompression,
	useDense:    true,
}

// initializeTempStore initializes the temporary file that entities are stored
// before being copied, after the header, to the io.Writer passed to the encoder.
func initializeTempStore(o *encoderOptions) error {
	if o.store == "" {
		tmpdir, err := os.MkdirTemp("", "pbf")
		if err != nil {
			return fmt.Errorf("%w: cannot create temporary directory: %w", ErrCreateTempFile, err)
		}

		o.store = tmpdir
	}

	wrtr, err := os.Create(path.Join(o.store, tempFileName))
	if err != nil {
		return fmt.Errorf("%w: cannot create temporary file %s: %w", ErrCreateTempFile, path.Join(o.store, tempFileName), err)
	}

	o.wrtr = wrtr

	return nil
}
