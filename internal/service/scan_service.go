package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/receiptsplit/internal/editor"
	"github.com/mmynk/receiptsplit/internal/scanner"
	"github.com/mmynk/receiptsplit/pkg/api"
)

var _ api.ScanServiceHandler = (*ScanService)(nil)

// ImageStore keeps uploaded receipts and hands out their public URLs.
type ImageStore interface {
	Put(ctx context.Context, contentType string, data []byte) (string, error)
	URL(name string) string
}

// ScanService implements the Connect ScanService.
type ScanService struct {
	scanner   scanner.Scanner
	images    ImageStore
	maxBytes  int64
	validator *validator.Validate
}

// NewScanService creates a ScanService accepting uploads up to maxBytes.
func NewScanService(sc scanner.Scanner, images ImageStore, maxBytes int64, v *validator.Validate) *ScanService {
	return &ScanService{scanner: sc, images: images, maxBytes: maxBytes, validator: v}
}

// ScanReceipt stores the uploaded image, extracts the bill from it and
// returns an unsaved draft bill seeded from the extraction.
func (s *ScanService) ScanReceipt(ctx context.Context, req *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error) {
	if err := s.validator.Struct(req.Msg); err != nil {
		return nil, connectError("ScanReceipt", err)
	}

	img := scanner.Normalize(scanner.Image{Data: req.Msg.Image, ContentType: req.Msg.ContentType})
	if err := scanner.Validate(img, s.maxBytes); err != nil {
		return nil, connectError("ScanReceipt", err)
	}

	name, err := s.images.Put(ctx, img.ContentType, img.Data)
	if err != nil {
		return nil, connectError("ScanReceipt", err)
	}
	imageURL := s.images.URL(name)

	start := time.Now()
	scanned, err := s.scanner.Scan(ctx, img)
	if err != nil {
		slog.Warn("Receipt scan failed", "image", name, "error", err)
		return nil, connectError("ScanReceipt", err)
	}
	slog.Info("Receipt scanned",
		"image", name,
		"merchant", scanned.MerchantName,
		"items", len(scanned.Items),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	draft := editor.FromScan(*scanned, imageURL)
	return connect.NewResponse(&api.ScanReceiptResponse{
		Scanned:  scannedToAPI(*scanned),
		ImageURL: imageURL,
		Draft:    viewOf(draft),
	}), nil
}
