// Package imagex turns cabin photo files into data URIs.
package imagex

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const DefaultMaxBytes = 5 << 20

var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("image is too large")
)

// EncodeFile reads path and returns it as "data:<mime>;base64,...". The type is
// sniffed from the content, not the extension. maxBytes <= 0 means
// DefaultMaxBytes.
func EncodeFile(path string, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: is a directory", path)
	}
	if info.Size() > maxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, info.Size(), maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Encode(data)
}

// Encode builds a data URI from raw image bytes.
func Encode(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}
	// drop parameters such as "; charset=utf-8" (svg)
	mime, _, _ := strings.Cut(mt.String(), ";")
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
