// Package scanner extracts structured bill data from receipt images.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmynk/receiptsplit/internal/models"
)

var (
	// ErrRateLimited means the upstream model provider throttled the request.
	ErrRateLimited = errors.New("rate limits exceeded, please try again later")

	// ErrQuotaExceeded means the provider account ran out of credits.
	ErrQuotaExceeded = errors.New("usage limit reached, please add credits to continue")

	ErrEmptyImage       = errors.New("image is empty")
	ErrImageTooLarge    = errors.New("image is too large")
	ErrUnsupportedImage = errors.New("unsupported image type")

	// ErrUnreadable means the model answered but the answer was not bill JSON.
	ErrUnreadable = errors.New("failed to parse bill data from model response")

	// ErrDisabled is returned by Disabled.
	ErrDisabled = errors.New("receipt scanning is not configured")
)

// SupportedTypes lists the accepted upload content types.
var SupportedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
	"application/pdf",
}

// Image is an uploaded receipt.
type Image struct {
	Data        []byte
	ContentType string
}

// IsPDF reports whether the image is a PDF document.
func (img Image) IsPDF() bool {
	return img.ContentType == "application/pdf"
}

// Scanner turns a receipt image into a best-effort bill extraction.
type Scanner interface {
	Scan(ctx context.Context, img Image) (*models.ScannedBill, error)
}

// Disabled is the Scanner used when no model provider is configured.
type Disabled struct{}

// Scan always fails with ErrDisabled.
func (Disabled) Scan(context.Context, Image) (*models.ScannedBill, error) {
	return nil, ErrDisabled
}

// Normalize fills in a missing content type by sniffing the data and strips
// parameters such as "; charset=binary".
func Normalize(img Image) Image {
	ct := strings.ToLower(strings.TrimSpace(img.ContentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(img.Data)
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = ct[:i]
		}
	}
	if ct == "image/jpg" {
		ct = "image/jpeg"
	}
	img.ContentType = ct
	return img
}

// Validate checks the type and size of an upload. maxBytes <= 0 disables the
// size check.
func Validate(img Image, maxBytes int64) error {
	if len(img.Data) == 0 {
		return ErrEmptyImage
	}
	if maxBytes > 0 && int64(len(img.Data)) > maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrImageTooLarge, len(img.Data), maxBytes)
	}
	for _, t := range SupportedTypes {
		if img.ContentType == t {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedImage, img.ContentType)
}
