// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package codec_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/galleria/internal/platform/codec"
)

// testImage builds a small gradient so encoders have real pixel data.
func testImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 11), B: 128, A: 255})
		}
	}
	return img
}

/*
TestImaging_Encode round-trips every supported output format back through
the decoder, covering the per-format quality options.
*/
func TestImaging_Encode(t *testing.T) {
	subject := codec.New()
	source := testImage(32, 24)

	tests := []struct {
		name    string
		format  string
		quality int
	}{
		{"jpeg", "jpeg", 75},
		{"png_fast", "png", 95},
		{"png_default", "png", 60},
		{"png_small", "png", 10},
		{"gif", "gif", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := subject.Encode(source, tt.format, tt.quality)
			require.NoError(t, err)
			require.NotEmpty(t, encoded)

			decoded, err := subject.Decode(bytes.NewReader(encoded))
			require.NoError(t, err)

			width, height := subject.Dimensions(decoded)
			assert.Equal(t, 32, width)
			assert.Equal(t, 24, height)
		})
	}
}

/*
TestImaging_Encode_UnsupportedFormat rejects formats without a registered
encoder.
*/
func TestImaging_Encode_UnsupportedFormat(t *testing.T) {
	subject := codec.New()

	_, err := subject.Encode(testImage(4, 4), "webp", 80)
	assert.Error(t, err)
}

/*
TestImaging_Fit shrinks oversized images and leaves fitting ones untouched.
*/
func TestImaging_Fit(t *testing.T) {
	subject := codec.New()

	t.Run("shrinks_preserving_aspect", func(t *testing.T) {
		fitted := subject.Fit(testImage(800, 600), 240, 240)
		width, height := subject.Dimensions(fitted)
		assert.Equal(t, 240, width)
		assert.Equal(t, 180, height)
	})

	t.Run("never_upscales", func(t *testing.T) {
		fitted := subject.Fit(testImage(100, 80), 240, 240)
		width, height := subject.Dimensions(fitted)
		assert.Equal(t, 100, width)
		assert.Equal(t, 80, height)
	})
}
