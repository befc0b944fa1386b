package media

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxPayloadSize is the largest video accepted before any provider call.
const MaxPayloadSize = 150 * 1024 * 1024

var (
	ErrEmptyPayload     = errors.New("video payload is empty")
	ErrPayloadTooLarge  = errors.New("video file too large, max 150 MB")
	ErrUnsupportedMedia = errors.New("file is not a video")
)

// Payload is a video held in memory for a single request. The genai SDK
// base64-encodes Data on the wire.
type Payload struct {
	Name     string
	MIMEType string
	Data     []byte
}

// ConversionError reports a failure turning a file into a Payload.
type ConversionError struct {
	Name string
	Err  error
}

func (e *ConversionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("convert video: %v", e.Err)
	}
	return fmt.Sprintf("convert video %s: %v", e.Name, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func (p *Payload) Size() int { return len(p.Data) }

// Validate checks the preconditions every provider call relies on.
func (p *Payload) Validate() error {
	if p == nil || len(p.Data) == 0 {
		return ErrEmptyPayload
	}
	if len(p.Data) > MaxPayloadSize {
		return ErrPayloadTooLarge
	}
	if p.MIMEType == "" {
		return ErrUnsupportedMedia
	}
	return nil
}

// Load reads a video file from disk.
func Load(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConversionError{Name: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	if info, err := f.Stat(); err == nil && info.Size() > MaxPayloadSize {
		return nil, &ConversionError{Name: path, Err: ErrPayloadTooLarge}
	}

	return Read(f, filepath.Base(path), "")
}

// Read consumes r up to the size ceiling. An empty or generic mimeType is
// replaced by the sniffed content type.
func Read(r io.Reader, name, mimeType string) (*Payload, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPayloadSize+1))
	if err != nil {
		return nil, &ConversionError{Name: name, Err: err}
	}
	return fromBytes(data, name, mimeType)
}

// FromBase64 builds a payload from base64 text as produced by a browser,
// with or without a "data:<mime>;base64," prefix.
func FromBase64(encoded, mimeType string) (*Payload, error) {
	return ReadBase64(strings.NewReader(strings.TrimSpace(encoded)), "", mimeType)
}

// ReadBase64 decodes base64 from r as it is read, so the encoded form never
// has to be held in memory. A leading data URL header supplies the MIME
// type when mimeType is empty.
func ReadBase64(r io.Reader, name, mimeType string) (*Payload, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len("data:")); err == nil && string(prefix) == "data:" {
		header, err := br.ReadString(',')
		if err != nil {
			return nil, &ConversionError{Name: name, Err: fmt.Errorf("read data URL header: %w", err)}
		}
		if mimeType == "" {
			mimeType = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSuffix(header, ","), "data:"), ";base64")
		}
	}

	decoder := base64.NewDecoder(base64.StdEncoding, br)
	data, err := io.ReadAll(io.LimitReader(decoder, MaxPayloadSize+1))
	if err != nil {
		return nil, &ConversionError{Name: name, Err: fmt.Errorf("decode base64: %w", err)}
	}
	return fromBytes(data, name, mimeType)
}

func fromBytes(data []byte, name, mimeType string) (*Payload, error) {
	if len(data) == 0 {
		return nil, &ConversionError{Name: name, Err: ErrEmptyPayload}
	}
	if len(data) > MaxPayloadSize {
		return nil, &ConversionError{Name: name, Err: ErrPayloadTooLarge}
	}

	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = DetectMIMEType(data)
	}
	if !strings.HasPrefix(mimeType, "video/") {
		return nil, &ConversionError{Name: name, Err: fmt.Errorf("%w: %s", ErrUnsupportedMedia, mimeType)}
	}

	return &Payload{Name: name, MIMEType: mimeType, Data: data}, nil
}

// DetectMIMEType sniffs the container format, dropping parameters such as
// charset.
func DetectMIMEType(data []byte) string {
	detected := mimetype.Detect(data).String()
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}
	return detected
}
