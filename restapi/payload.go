package restapi

import (
	"bytes"
	"encoding/base64"
	"io"
	"io/ioutil"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

var (
	ErrBadPayload   = errors.New("bad payload")
	ErrBodyTooLarge = errors.New("request body too large")
)

// EncodePayload compresses a chart source for use in a GET request.
func EncodePayload(src []byte) (string, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return "", errors.Wrap(err, "compress payload")
	}
	if err := zw.Close(); err != nil {
		return "", errors.Wrap(err, "compress payload")
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodePayload reverses EncodePayload. Base64 padding is optional. The
// decompressed size is limited to max bytes.
func DecodePayload(payload string, max int64) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(payload, "="))
	if err != nil {
		return nil, errors.Wrap(ErrBadPayload, err.Error())
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(ErrBadPayload, err.Error())
	}
	defer zr.Close() // nolint: errcheck
	return readLimited(zr, max, ErrBadPayload)
}

// readLimited reads all of r, failing with ErrBodyTooLarge past max bytes.
// Other read errors are wrapped in readErr.
func readLimited(r io.Reader, max int64, readErr error) ([]byte, error) {
	data, err := ioutil.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, errors.Wrap(readErr, err.Error())
	}
	if int64(len(data)) > max {
		return nil, errors.Wrapf(ErrBodyTooLarge, "limit is %d bytes", max)
	}
	return data, nil
}
