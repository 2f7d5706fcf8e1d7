////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package capture

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// keySeparator joins the natural keys of parent records into child ids.
const keySeparator = "::"

// clipboardSuffixLen is the length of the random alphanumeric suffix on
// clipboard ids.
const clipboardSuffixLen = 9

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// AppID returns the primary key of the App with the given name under the
// domain. The key is a pure function of its inputs so that re-capturing the
// same app never creates a duplicate record.
func AppID(domain, appName string) string {
	return domain + keySeparator + appName
}

// FlowID returns the primary key of the Flow with the given name under the
// app.
func FlowID(appID, flowName string) string {
	return appID + keySeparator + flowName
}

// NewClipboardID generates a unique primary key for a ClipboardEntry
// captured at the given time. Ids are time-sortable by their millisecond
// prefix; the random suffix disambiguates captures within the same
// millisecond.
func NewClipboardID(now time.Time) string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	sb.WriteByte('_')
	for i := 0; i < clipboardSuffixLen; i++ {
		sb.WriteByte(suffixAlphabet[rand.Intn(len(suffixAlphabet))])
	}
	return sb.String()
}
