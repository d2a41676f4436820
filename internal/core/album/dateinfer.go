// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package album

import (
	"context"
	"io"
	"regexp"
	"strconv"
	"time"
)

// # Date Inference

// CaptureTimeSource extracts the capture timestamp of a picture's original
// file. It is satisfied by wiring the media storage and the image codec
// together; tests substitute a stub.
type CaptureTimeSource interface {
	CaptureTime(reader io.Reader) (time.Time, error)
}

// OriginalOpener opens the original file of a picture for metadata reads.
type OriginalOpener interface {
	Open(path string) (io.ReadCloser, error)
}

// datePatterns are tried in order against each text source. ISO dates win
// over the localized day-first form so "2023-04-05" is never read as the
// 5th of April by one writer and the 4th of May by another.
var (
	isoDatePattern      = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	dayFirstDatePattern = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
)

/*
inferDate guesses an album's representative date when none was set.

Description: Three sources are consulted in priority order:

 1. EXIF capture time of the cover picture's original file.
 2. A date written into the description.
 3. A date written into the title.

Text sources are scanned with the ISO pattern first, then the day-first
localized pattern. Matches that do not form a real calendar date (month 13,
February 30th) are ignored and scanning continues.

Inference is best effort: every failure is logged at debug level and the
album simply stays dateless.

Returns:
  - *time.Time: The inferred date at midnight UTC, or nil
*/
func (service *Service) inferDate(context context.Context, album *Album) *time.Time {

	// 1. EXIF capture time of the cover's original.
	if captured := service.coverCaptureDate(context, album); captured != nil {
		return captured
	}

	// 2-3. Free-text scanning, description before title.
	for _, source := range []string{album.Description, album.Title} {
		if parsed := parseTextDate(source); parsed != nil {
			return parsed
		}
	}

	return nil
}

// coverCaptureDate reads the EXIF timestamp from the cover picture's
// original file. Any failure along the chain disables this source only.
func (service *Service) coverCaptureDate(context context.Context, album *Album) *time.Time {

	if album.CoverPictureID == nil || service.media == nil || service.exif == nil {
		return nil
	}

	src, err := service.media.OriginalSrc(context, *album.CoverPictureID)
	if err != nil {
		service.logger.Debug("date inference: no original for cover",
			"album_id", album.ID, "error", err)
		return nil
	}

	reader, err := service.openOriginal(src)
	if err != nil {
		service.logger.Debug("date inference: original unreadable",
			"album_id", album.ID, "src", src, "error", err)
		return nil
	}
	defer reader.Close()

	captured, err := service.exif.CaptureTime(reader)
	if err != nil {
		service.logger.Debug("date inference: no exif timestamp",
			"album_id", album.ID, "src", src, "error", err)
		return nil
	}

	date := truncateToDate(captured)
	return &date
}

// openOriginal resolves the original reader through the configured opener.
func (service *Service) openOriginal(src string) (io.ReadCloser, error) {
	if service.opener == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return service.opener.Open(src)
}

// parseTextDate extracts the first valid calendar date from free text,
// trying the ISO pattern before the day-first pattern.
func parseTextDate(text string) *time.Time {

	if text == "" {
		return nil
	}

	if match := isoDatePattern.FindStringSubmatch(text); match != nil {
		if date := buildDate(match[1], match[2], match[3]); date != nil {
			return date
		}
	}

	if match := dayFirstDatePattern.FindStringSubmatch(text); match != nil {
		if date := buildDate(match[3], match[2], match[1]); date != nil {
			return date
		}
	}

	return nil
}

// buildDate validates year/month/day strings into a real calendar date.
//
// time.Date normalizes out-of-range components (month 13 becomes January),
// so the round-trip check rejects anything that silently rolled over.
func buildDate(yearText, monthText, dayText string) *time.Time {

	year, _ := strconv.Atoi(yearText)
	month, _ := strconv.Atoi(monthText)
	day, _ := strconv.Atoi(dayText)

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return nil
	}

	return &date
}

// truncateToDate drops the time-of-day component, keeping midnight UTC.
func truncateToDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
