package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"tubesight/internal/gemini"
	"tubesight/internal/media"
)

// maxFieldSize caps every form field other than the video.
const maxFieldSize = 10 << 20

// upload is a multipart form read part by part, so the video is never
// buffered twice.
type upload struct {
	video  *media.Payload
	values url.Values
}

func (u *upload) value(key string) string {
	return u.values.Get(key)
}

func (u *upload) valueOr(key, fallback string) string {
	if v := strings.TrimSpace(u.values.Get(key)); v != "" {
		return v
	}
	return fallback
}

// parseUpload reads the video from the "video" file field, or from the
// "videoBase64" text field when no file was sent. Base64 is decoded while
// the body streams in.
func (h *Handlers) parseUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, badRequest(fmt.Errorf("parse form: %w", err))
	}

	u := &upload{values: make(url.Values)}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, uploadError(fmt.Errorf("parse form: %w", err))
		}

		err = u.readPart(part)
		_ = part.Close()
		if err != nil {
			return nil, uploadError(err)
		}
	}

	if u.video == nil {
		return nil, badRequest(fmt.Errorf("video is required"))
	}
	return u, nil
}

func (u *upload) readPart(part *multipart.Part) error {
	name := part.FormName()
	switch {
	case name == "":
		return nil
	case name == "video" && part.FileName() != "":
		video, err := media.Read(part, part.FileName(), part.Header.Get("Content-Type"))
		if err != nil {
			return err
		}
		u.video = video
		return nil
	case name == "videoBase64":
		if u.video != nil {
			return nil
		}
		video, err := media.ReadBase64(part, "", u.values.Get("mimeType"))
		if errors.Is(err, media.ErrEmptyPayload) {
			return nil
		}
		if err != nil {
			return err
		}
		u.video = video
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(part, maxFieldSize+1))
	if err != nil {
		return err
	}
	if len(data) > maxFieldSize {
		return fmt.Errorf("field %q: %w", name, multipart.ErrMessageTooLarge)
	}
	u.values.Add(name, string(data))
	return nil
}

// uploadError reports an oversized body as PayloadTooLargeError and any
// other form problem as a bad request.
func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) ||
		errors.Is(err, multipart.ErrMessageTooLarge) ||
		strings.Contains(err.Error(), "request body too large") {
		return &gemini.PayloadTooLargeError{Err: err}
	}
	return badRequest(err)
}
