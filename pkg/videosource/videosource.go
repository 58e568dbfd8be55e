// Package videosource prepares host-submitted video sources for the media
// element. Remote and data URLs pass through; local files and raw bytes
// are inlined as base64 data URLs.
package videosource

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const fallbackMimeType = "video/mp4"

var passthroughPrefixes = []string{"data:", "http://", "https://", "blob:"}

// Prepare converts a source string into something the element can load.
// URLs are returned unchanged; anything else is treated as a local file
// path, read and inlined.
func Prepare(source string) (string, error) {
	for _, prefix := range passthroughPrefixes {
		if strings.HasPrefix(source, prefix) {
			return source, nil
		}
	}

	b, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read video file: %w", err)
	}

	return FromBytes(b), nil
}

// FromBytes inlines raw video bytes as a data URL, sniffing the mime type
// from content.
func FromBytes(b []byte) string {
	mime := mimetype.Detect(b).String()
	if mime == "application/octet-stream" {
		mime = fallbackMimeType
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b)
}
