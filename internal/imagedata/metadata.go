package imagedata

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
)

// Metadata is the EXIF subset worth logging alongside an analysis.
type Metadata struct {
	DateTaken   time.Time
	HasDate     bool
	CameraMake  string
	CameraModel string
}

// Camera returns "make model", or "" if neither is known.
func (m *Metadata) Camera() string {
	return strings.TrimSpace(m.CameraMake + " " + m.CameraModel)
}

// ExtractMetadata reads EXIF from in-memory image bytes. Only the metadata
// blocks are parsed. Formats without EXIF (most PNG and WebP captures)
// return an error, which callers treat as "no metadata".
//
// Date priority: DateTimeOriginal, then CreateDate, then ModifyDate.
func ExtractMetadata(data []byte) (*Metadata, error) {
	exifData, err := imagemeta.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode EXIF metadata: %w", err)
	}

	m := &Metadata{
		CameraMake:  strings.TrimSpace(exifData.Make),
		CameraModel: strings.TrimSpace(exifData.Model),
	}

	switch {
	case !exifData.DateTimeOriginal().IsZero():
		m.DateTaken, m.HasDate = exifData.DateTimeOriginal(), true
	case !exifData.CreateDate().IsZero():
		m.DateTaken, m.HasDate = exifData.CreateDate(), true
	case !exifData.ModifyDate().IsZero():
		m.DateTaken, m.HasDate = exifData.ModifyDate(), true
	}

	return m, nil
}
