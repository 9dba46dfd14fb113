package persistence

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/gzip"

	"github.com/darlean-io/canonical/canonical"
)

// envelope is the stored binary form: the tagged wire rendering of a
// canonical, wrapped with the metadata needed to reverse the process.
type envelope struct {
	Format string `cbor:"f"`
	Gzip   bool   `cbor:"z"`
	Data   []byte `cbor:"d"`
}

const formatTagged = "tagged-json"

// gzipThreshold is the payload size above which the envelope compresses.
// Small payloads gain nothing from the gzip header overhead.
const gzipThreshold = 512

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// MarshalCanonical renders a canonical into its stored binary form.
func MarshalCanonical(c canonical.Canonical) ([]byte, error) {
	data, err := canonical.EncodeTagged(c)
	if err != nil {
		return nil, err
	}
	env := envelope{Format: formatTagged, Data: data}
	if len(data) > gzipThreshold {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		env.Gzip = true
		env.Data = buf.Bytes()
	}
	return encMode.Marshal(env)
}

// UnmarshalCanonical reverses MarshalCanonical.
func UnmarshalCanonical(data []byte) (canonical.Canonical, error) {
	var env envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("persistence: malformed envelope: %w", err)
	}
	if env.Format != formatTagged {
		return nil, fmt.Errorf("persistence: unsupported envelope format %q", env.Format)
	}
	payload := env.Data
	if env.Gzip {
		zr, err := gzip.NewReader(bytes.NewReader(env.Data))
		if err != nil {
			return nil, fmt.Errorf("persistence: malformed envelope payload: %w", err)
		}
		payload, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("persistence: malformed envelope payload: %w", err)
		}
		if err := zr.Close(); err != nil {
			return nil, err
		}
	}
	return canonical.DecodeTagged(payload)
}
