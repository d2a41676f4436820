// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package codec wraps all image decoding, resizing, and encoding behind a
single collaborator interface.

It is the only package allowed to import image-processing libraries, so the
domain layer stays free of pixel-level concerns.

Core Responsibilities:

  - Decode: JPEG, PNG, GIF, and WebP input with EXIF auto-orientation.
  - Fit: Aspect-preserving shrink-to-fit (never upscales).
  - Encode: JPEG/PNG/GIF output with per-format quality options.
  - Metadata: EXIF capture-timestamp extraction for date inference.

WebP output is intentionally unsupported: encoding WebP requires cgo
bindings, and the derivation specs are restricted to jpeg/png instead.
*/
package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	// Register the WebP decoder, which imaging does not handle natively.
	_ "golang.org/x/image/webp"
)

// # Codec Contract

// Codec is the image-processing contract used by the media derivation
// engine and the album date-inference logic.
type Codec interface {

	// Decode reads an image, applying EXIF auto-orientation.
	Decode(reader io.Reader) (image.Image, error)

	// Dimensions returns the pixel width and height of img.
	Dimensions(img image.Image) (width, height int)

	// Fit scales img down to fit within (maxWidth, maxHeight), preserving
	// aspect ratio. Images already within bounds are returned unscaled.
	Fit(img image.Image, maxWidth, maxHeight int) image.Image

	// Encode serializes img in the given format with the given quality.
	Encode(img image.Image, format string, quality int) ([]byte, error)

	// CaptureTime extracts the EXIF capture timestamp from raw image bytes.
	// It returns an error when the metadata is absent or unreadable.
	CaptureTime(reader io.Reader) (time.Time, error)
}

// # Imaging Implementation

// Imaging implements [Codec] on top of disintegration/imaging.
type Imaging struct{}

// New returns the default imaging-backed [Codec].
func New() *Imaging {
	return &Imaging{}
}

// Decode reads an image from reader, applying EXIF auto-orientation so
// portrait shots are upright before any resize.
func (c *Imaging) Decode(reader io.Reader) (image.Image, error) {
	img, err := imaging.Decode(reader, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("codec: decode failed: %w", err)
	}
	return img, nil
}

// Dimensions returns the pixel width and height of img.
func (c *Imaging) Dimensions(img image.Image) (int, int) {
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy()
}

// Fit scales img down to fit within (maxWidth, maxHeight).
//
// imaging.Fit only ever shrinks: an image already inside the bounding box
// comes back at its original size, satisfying the never-upscale rule.
func (c *Imaging) Fit(img image.Image, maxWidth, maxHeight int) image.Image {
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}

// Encode serializes img in the given format.
//
// # Format Options
//
//   - jpeg: quality 1-100 (higher is better).
//   - png: quality is mapped onto the compression level knob.
//   - gif: quality is ignored.
func (c *Imaging) Encode(img image.Image, format string, quality int) ([]byte, error) {
	encodedFormat, err := imaging.FormatFromExtension("." + format)
	if err != nil {
		return nil, fmt.Errorf("codec: unsupported output format %q: %w", format, err)
	}

	options := []imaging.EncodeOption{}
	switch encodedFormat {
	case imaging.JPEG:
		options = append(options, imaging.JPEGQuality(quality))
	case imaging.PNG:
		options = append(options, imaging.PNGCompressionLevel(pngLevel(quality)))
	}

	var buffer bytes.Buffer
	if err := imaging.Encode(&buffer, img, encodedFormat, options...); err != nil {
		return nil, fmt.Errorf("codec: encode %s failed: %w", format, err)
	}
	return buffer.Bytes(), nil
}

// CaptureTime extracts the EXIF DateTimeOriginal (or DateTime) timestamp.
func (c *Imaging) CaptureTime(reader io.Reader) (time.Time, error) {
	metadata, err := exif.Decode(reader)
	if err != nil {
		return time.Time{}, fmt.Errorf("codec: exif decode failed: %w", err)
	}

	capturedAt, err := metadata.DateTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("codec: exif timestamp missing: %w", err)
	}
	return capturedAt, nil
}

// pngLevel maps a 1-100 quality knob onto PNG compression levels,
// where higher quality requests cheaper (faster, larger) compression.
func pngLevel(quality int) png.CompressionLevel {
	switch {
	case quality >= 90:
		return png.BestSpeed
	case quality >= 50:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}
