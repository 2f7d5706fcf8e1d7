////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package capture

import (
	"time"

	"github.com/aquilax/truncate"
)

// timestampFormat is the layout used for every stored timestamp. It is a
// fixed-width UTC variant of ISO-8601 so that lexicographic order on the
// timestamp indexes matches chronological order.
const timestampFormat = "2006-01-02T15:04:05.000Z"

// previewLength is the maximum length of a generated content preview.
const previewLength = 100

// Domain defines the IndexedDb representation of a single captured Domain.
//
// A Domain has many App.
type Domain struct {
	// Domain is the natural key, e.g. "mobbin.com". Matches the keyPath.
	Domain string `json:"domain"`

	// Timestamp is the time of the first capture under this domain. It is
	// set once and never updated.
	Timestamp string `json:"timestamp"` // Index
}

// App defines the IndexedDb representation of a single App under a Domain.
//
// An App has many Flow.
type App struct {
	// ID is "{domain}::{appName}". Matches the keyPath.
	ID        string `json:"id"`
	Domain    string `json:"domain"`    // Index
	AppName   string `json:"appName"`   // Index
	Timestamp string `json:"timestamp"` // Index
}

// Flow defines the IndexedDb representation of a single Flow under an App.
//
// A Flow has many ClipboardEntry.
type Flow struct {
	// ID is "{appId}::{flowName}". Matches the keyPath.
	ID        string `json:"id"`
	AppID     string `json:"appId"`     // Index
	FlowName  string `json:"flowName"`  // Index
	Timestamp string `json:"timestamp"` // Index
}

// ClipboardEntry defines the IndexedDb representation of one captured
// clipboard payload. One capture event produces exactly one entry.
type ClipboardEntry struct {
	// ID is "{epochMillis}_{random alphanumeric suffix}". Matches the
	// keyPath. The prefix keeps ids time-sortable; the suffix resolves
	// same-millisecond collisions.
	ID string `json:"id"`

	FlowID string `json:"flowId"` // Index

	// Content is the raw clipboard payload, of arbitrary size.
	Content string `json:"content"`

	// ContentPreview is a short summary suitable for list views.
	ContentPreview string `json:"contentPreview"`

	// IsComplexData is true when Content parses as structured data.
	IsComplexData bool `json:"isComplexData"`

	Timestamp string `json:"timestamp"` // Index
	URL       string `json:"url"`
}

// FormatTimestamp renders t in the stored timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

// ParseTimestamp parses a stored timestamp. Captures produced by older
// generations of the extension may carry arbitrary RFC 3339 strings, so any
// valid RFC 3339 input is accepted. Returns the zero time when unparsable.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// MakeContentPreview derives a short preview from the full clipboard
// content. Used when the capture event does not supply one.
func MakeContentPreview(content string) string {
	return truncate.Truncate(content, previewLength, "...", truncate.PositionEnd)
}
