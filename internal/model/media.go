package model

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// MaxImageBytes caps images embedded into the document as data URIs.
const MaxImageBytes = 2 * 1024 * 1024

var ErrImageTooLarge = errors.New("image exceeds 2MB limit")

// DataURI encodes raw image bytes as a data URI suitable for the image fields of SiteContent.
// An empty contentType is sniffed from the data.
func DataURI(contentType string, data []byte) (string, error) {
	if len(data) > MaxImageBytes {
		return "", ErrImageTooLarge
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// NewItemID returns a timestamp-based list item id that does not collide with any of existing.
func NewItemID(now time.Time, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		taken[id] = struct{}{}
	}
	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if _, ok := taken[id]; !ok {
			return id
		}
		ms++
	}
}
