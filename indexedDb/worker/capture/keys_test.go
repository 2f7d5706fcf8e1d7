////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package capture

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

// Tests that app and flow ids are deterministic functions of their
// identifying attributes.
func TestAppIDFlowID(t *testing.T) {
	appID := AppID("mobbin.com", "Zomato")
	if appID != "mobbin.com::Zomato" {
		t.Errorf("Unexpected app id.\nexpected: %s\nreceived: %s",
			"mobbin.com::Zomato", appID)
	}

	flowID := FlowID(appID, "Onboarding")
	if flowID != "mobbin.com::Zomato::Onboarding" {
		t.Errorf("Unexpected flow id.\nexpected: %s\nreceived: %s",
			"mobbin.com::Zomato::Onboarding", flowID)
	}

	// Repeated computation yields the same keys.
	if AppID("mobbin.com", "Zomato") != appID {
		t.Error("App id is not deterministic.")
	}
	if FlowID(appID, "Onboarding") != flowID {
		t.Error("Flow id is not deterministic.")
	}
}

// Tests that clipboard ids carry the capture time as a millisecond prefix
// followed by a random alphanumeric suffix of the expected length.
func TestNewClipboardID(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	id := NewClipboardID(now)

	prefix, suffix, found := strings.Cut(id, "_")
	if !found {
		t.Fatalf("Clipboard id %q has no suffix separator.", id)
	}

	millis, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		t.Fatalf("Failed to parse prefix of %q: %+v", id, err)
	}
	if millis != now.UnixMilli() {
		t.Errorf("Unexpected millisecond prefix.\nexpected: %d\nreceived: %d",
			now.UnixMilli(), millis)
	}

	if len(suffix) != clipboardSuffixLen {
		t.Errorf("Unexpected suffix length.\nexpected: %d\nreceived: %d",
			clipboardSuffixLen, len(suffix))
	}
	for _, c := range suffix {
		if !strings.ContainsRune(suffixAlphabet, c) {
			t.Errorf("Suffix character %q not in alphabet.", c)
		}
	}
}

// Tests that same-millisecond captures get distinct ids.
func TestNewClipboardID_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewClipboardID(now)
		if _, exists := seen[id]; exists {
			t.Fatalf("Duplicate clipboard id generated: %q", id)
		}
		seen[id] = struct{}{}
	}
}

// Tests that ids generated at increasing times sort in capture order.
func TestNewClipboardID_TimeSortable(t *testing.T) {
	early := NewClipboardID(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	late := NewClipboardID(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	if !(early < late) {
		t.Errorf("Ids are not time-sortable: %q should sort before %q",
			early, late)
	}
}
