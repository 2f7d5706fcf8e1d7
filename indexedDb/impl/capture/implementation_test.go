////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"

	jww "github.com/spf13/jwalterweatherman"
	"github.com/stretchr/testify/require"

	"gitlab.com/clipvault/clipvault-wasm/indexedDb/impl"
	"gitlab.com/clipvault/clipvault-wasm/indexedDb/worker/capture"
)

func TestMain(m *testing.M) {
	jww.SetStdoutThreshold(jww.LevelDebug)
	os.Exit(m.Run())
}

// testEvent builds a capture event with deterministic fields. The timestamp
// suffix keeps rows ordered by i.
func testEvent(domain, appName, flowName string, i int) *capture.CaptureEvent {
	return &capture.CaptureEvent{
		Domain:           domain,
		AppName:          appName,
		FlowName:         flowName,
		ClipboardContent: fmt.Sprintf("content %d", i),
		Timestamp:        fmt.Sprintf("2024-01-01T00:00:%02d.000Z", i),
		URL:              "https://" + domain + "/some/page",
	}
}

// Happy path: a single save creates one row in each of the four stores and
// returns a fully populated entry.
func TestWasmModel_SaveClipboard(t *testing.T) {
	m, err := NewWASMModel("TestWasmModel_SaveClipboard")
	if err != nil {
		t.Fatal(err)
	}

	event := testEvent("mobbin.com", "Airbnb", "Onboarding", 0)
	entry, err := m.SaveClipboard(event)
	if err != nil {
		t.Fatal(err)
	}

	if entry.ID == "" {
		t.Fatal("Expected entry to have an id")
	}
	expectedFlowID := capture.FlowID(
		capture.AppID("mobbin.com", "Airbnb"), "Onboarding")
	if entry.FlowID != expectedFlowID {
		t.Fatalf("Unexpected flow id: %s", entry.FlowID)
	}
	if entry.ContentPreview != "content 0" {
		t.Fatalf("Expected preview derived from content, got %q",
			entry.ContentPreview)
	}

	info, err := m.GetStorageInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Domains != 1 || info.Apps != 1 || info.Flows != 1 ||
		info.Clipboards != 1 {
		t.Fatalf("Unexpected storage info: %+v", info)
	}
}

// Saving repeatedly under the same hierarchy must not duplicate the domain,
// app, or flow rows, and must not move their first-capture timestamps.
func TestWasmModel_SaveClipboard_HierarchyReuse(t *testing.T) {
	m, err := NewWASMModel("TestWasmModel_SaveClipboard_HierarchyReuse")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		_, err = m.SaveClipboard(testEvent("mobbin.com", "Airbnb", "Onboarding", i))
		if err != nil {
			t.Fatal(err)
		}
	}

	info, err := m.GetStorageInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Domains != 1 || info.Apps != 1 || info.Flows != 1 {
		t.Fatalf("Hierarchy rows duplicated: %+v", info)
	}
	if info.Clipboards != 5 {
		t.Fatalf("Expected 5 clipboards, got %d", info.Clipboards)
	}

	// The domain row must still carry the timestamp of the first save
	domains, err := m.GetDomains(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, domains.Data, 1)
	require.Equal(t, "2024-01-01T00:00:00.000Z", domains.Data[0].Timestamp)
}

// Error path: every field of the hierarchy is required.
func TestWasmModel_SaveClipboard_MissingFields(t *testing.T) {
	m, err := NewWASMModel("TestWasmModel_SaveClipboard_MissingFields")
	if err != nil {
		t.Fatal(err)
	}

	events := []*capture.CaptureEvent{
		{AppName: "Airbnb", FlowName: "Onboarding"},
		{Domain: "mobbin.com", FlowName: "Onboarding"},
		{Domain: "mobbin.com", AppName: "Airbnb"},
	}
	for i, event := range events {
		if _, err = m.SaveClipboard(event); err == nil {
			t.Errorf("Expected error for incomplete event %d", i)
		}
	}

	// Nothing may have been stored
	info, err := m.GetStorageInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Domains != 0 || info.Apps != 0 || info.Flows != 0 ||
		info.Clipboards != 0 {
		t.Fatalf("Expected empty stores, got %+v", info)
	}
}

// Tests that GetDomains pages through every domain exactly once, oldest
// first.
func TestWasmModel_GetDomains_Pagination(t *testing.T) {
	m, err := NewWASMModel("TestWasmModel_GetDomains_Pagination")
	if err != nil {
		t.Fatal(err)
	}

	totalDomains := 5
	for i := 0; i < totalDomains; i++ {
		domain := "domain" + strconv.Itoa(i) + ".com"
		_, err = m.SaveClipboard(testEvent(domain, "App", "Flow", i))
		if err != nil {
			t.Fatal(err)
		}
	}

	limit := 2
	var seen []string
	for page := 0; ; page++ {
		result, err2 := m.GetDomains(page, limit)
		if err2 != nil {
			t.Fatal(err2)
		}
		if result.TotalCount != totalDomains {
			t.Fatalf("Unexpected total count: %d", result.TotalCount)
		}
		for _, d := range result.Data {
			seen = append(seen, d.Domain)
		}
		if !result.HasMore {
			break
		}
	}

	if len(seen) != totalDomains {
		t.Fatalf("Expected %d domains across pages, got %d",
			totalDomains, len(seen))
	}
	// Saves happened in timestamp order, so pages must come back oldest first
	for i, domain := range seen {
		expected := "domain" + strconv.Itoa(i) + ".com"
		if domain != expected {
			t.Fatalf("Page order wrong at %d: expected %s, got %s",
				i, expected, domain)
		}
	}
}

// Tests that a negative page number behaves like the first page instead of
// panicking on negative slice bounds.
func TestWasmModel_GetDomains_NegativePage(t *testing.T) {
	m, err := NewWASMModel("TestWasmModel_GetDomains_NegativePage")
	if err != nil {
		t.Fatal(err)
	}

	_, err = m.SaveClipboard(testEvent("a.com", "App", "Flow", 0))
	require.NoError(t, err)

	result, err := m.GetDomains(-1, 5)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, result.Data, 1)
	require.Equal(t, 0, result.Page)
	require.False(t, result.HasMore)
}

// Tests that GetApps and GetFlows only return the rows under the given
// parent, oldest first.
func TestWasmModel_GetApps_GetFlows(t *testing.T) {
	m, err := NewWASMModel("TestWasmModel_GetApps_GetFlows")
	if err != nil {
		t.Fatal(err)
	}

	// Two domains, two apps each, two flows under the first app
	_, err = m.SaveClipboard(testEvent("a.com", "App1", "Flow1", 0))
	require.NoError(t, err)
	_, err = m.SaveClipboard(testEvent("a.com", "App1", "Flow2", 1))
	require.NoError(t, err)
	_, err = m.SaveClipboard(testEvent("a.com", "App2", "Flow1", 2))
	require.NoError(t, err)
	_, err = m.SaveClipboard(testEvent("b.com", "App3", "Flow1", 3))
	require.NoError(t, err)

	apps, err := m.GetApps("a.com", 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, apps.Data, 2)
	require.Equal(t, "App1", apps.Data[0].AppName)
	require.Equal(t, "App2", apps.Data[1].AppName)

	flows, err := m.GetFlows(capture.AppID("a.com", "App1"), 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, flows.Data, 2)
	require.Equal(t, "Flow1", flows.Data[0].FlowName)
	require.Equal(t, "Flow2", flows.Data[1].FlowName)
}

// Tests that GetClipboards returns entries newest first and only for the
// requested flow.
func TestWasmModel_GetClipboards_NewestFirst(t *testing.T) {
	m, err := NewWASMModel("TestWasmModel_GetClipboards_NewestFirst")
	if err != nil {
		t.Fatal(err)
	}

	totalEntries := 4
	for i := 0; i < totalEntries; i++ {
		_, err = m.SaveClipboard(testEvent("a.com", "App", "Flow", i))
		require.NoError(t, err)
	}
	// One entry in a different flow that must not show up
	_, err = m.SaveClipboard(testEvent("a.com", "App", "Other", 9))
	require.NoError(t, err)

	flowID := capture.FlowID(capture.AppID("a.com", "App"), "Flow")
	result, err := m.GetClipboards(flowID, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, result.Data, totalEntries)

	for i, entry := range result.Data {
		expected := fmt.Sprintf("content %d", totalEntries-1-i)
		if entry.Content != expected {
			t.Fatalf("Order wrong at %d: expected %q, got %q",
				i, expected, entry.Content)
		}
		if entry.FlowID != flowID {
			t.Fatalf("Entry from wrong flow: %s", entry.FlowID)
		}
	}
}

// Happy path: delete one entry and check that the hierarchy above it stays.
func TestWasmModel_DeleteClipboard(t *testing.T) {
	m, err := NewWASMModel("TestWasmModel_DeleteClipboard")
	if err != nil {
		t.Fatal(err)
	}

	entry, err := m.SaveClipboard(testEvent("a.com", "App", "Flow", 0))
	if err != nil {
		t.Fatal(err)
	}

	if err = m.DeleteClipboard(entry.ID); err != nil {
		t.Fatal(err)
	}

	info, err := m.GetStorageInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Clipboards != 0 {
		t.Fatalf("Expected no clipboards, got %d", info.Clipboards)
	}
	// The empty flow, app, and domain rows must survive
	if info.Domains != 1 || info.Apps != 1 || info.Flows != 1 {
		t.Fatalf("Hierarchy rows must survive entry deletion: %+v", info)
	}
}

// Happy path: Inserts entries under two flows, deletes one flow, and checks
// that only its entries went with it.
func TestWasmModel_DeleteFlow(t *testing.T) {
	m, err := NewWASMModel("TestWasmModel_DeleteFlow")
	if err != nil {
		t.Fatal(err)
	}

	totalEntries := 10
	expectedEntries := 5
	for i := 0; i < totalEntries; i++ {
		// Interleave the flows to ensure cursor is behaving intelligently
		flowName := "deleteMe"
		if i%2 == 0 {
			flowName = "dontDeleteMe"
		}
		_, err = m.SaveClipboard(testEvent("a.com", "App", flowName, i))
		require.NoError(t, err)
	}

	// Check pre-results
	result, err := impl.Dump(m.db, clipboardStoreName)
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != totalEntries {
		t.Fatalf("Expected %d entries, got %d", totalEntries, len(result))
	}

	// Do delete
	deleteFlowID := capture.FlowID(capture.AppID("a.com", "App"), "deleteMe")
	if err = m.DeleteFlow(deleteFlowID); err != nil {
		t.Error(err)
	}

	// Check final results
	result, err = impl.Dump(m.db, clipboardStoreName)
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != expectedEntries {
		t.Fatalf("Expected %d entries, got %d", expectedEntries, len(result))
	}

	// The flow row itself is gone, the sibling flow stays
	flows, err := m.GetFlows(capture.AppID("a.com", "App"), 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, flows.Data, 1)
	require.Equal(t, "dontDeleteMe", flows.Data[0].FlowName)
}

// Tests that ClearAll wipes every capture store but leaves settings alone.
func TestWasmModel_ClearAll(t *testing.T) {
	m, err := NewWASMModel("TestWasmModel_ClearAll")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		_, err = m.SaveClipboard(
			testEvent("domain"+strconv.Itoa(i)+".com", "App", "Flow", i))
		require.NoError(t, err)
	}
	customDomains := []string{"a.com", "b.com"}
	require.NoError(t, m.SetEnabledDomains(customDomains))

	if err = m.ClearAll(); err != nil {
		t.Fatal(err)
	}

	info, err := m.GetStorageInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Domains != 0 || info.Apps != 0 || info.Flows != 0 ||
		info.Clipboards != 0 {
		t.Fatalf("Expected empty stores after ClearAll, got %+v", info)
	}

	// Settings must survive the wipe
	domains, err := m.GetEnabledDomains()
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, customDomains, domains)
}

// Tests that the storage estimate reported alongside the counts is sane:
// usage never exceeds quota when the browser provides an estimate.
func TestWasmModel_GetStorageInfo_Estimate(t *testing.T) {
	m, err := NewWASMModel("TestWasmModel_GetStorageInfo_Estimate")
	if err != nil {
		t.Fatal(err)
	}

	_, err = m.SaveClipboard(testEvent("a.com", "App", "Flow", 0))
	require.NoError(t, err)

	info, err := m.GetStorageInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Quota != 0 && info.Usage > info.Quota {
		t.Fatalf("Usage above quota: %d > %d", info.Usage, info.Quota)
	}
	require.Equal(t, 1, info.Clipboards)
}

// Tests that a failed list query comes back over RPC as an empty page rather
// than an error reply.
func TestManager_GetDomainsCB_ReadFailureDegrades(t *testing.T) {
	model, err := NewWASMModel("TestManager_GetDomainsCB_ReadFailureDegrades")
	if err != nil {
		t.Fatal(err)
	}
	_, err = model.SaveClipboard(testEvent("a.com", "App", "Flow", 0))
	require.NoError(t, err)

	// Closing the connection makes every query after it fail
	require.NoError(t, model.db.Close())

	m := &manager{model: model}
	request, err := json.Marshal(capture.PageRequest{Page: 0, Limit: 5})
	require.NoError(t, err)

	replyBytes, err := m.getDomainsCB(request)
	if err != nil {
		t.Fatal(err)
	}

	var reply capture.Reply
	require.NoError(t, json.Unmarshal(replyBytes, &reply))
	if reply.Error != "" {
		t.Fatalf("Query failure must not reply with an error, got %q",
			reply.Error)
	}

	var page capture.DomainPage
	require.NoError(t, json.Unmarshal(reply.Data, &page))
	if len(page.Data) != 0 || page.TotalCount != 0 || page.HasMore {
		t.Fatalf("Expected empty page, got %+v", page)
	}
}

// Tests that GetEnabledDomains stores and returns the default list on first
// read and that SetEnabledDomains replaces it.
func TestWasmModel_EnabledDomains(t *testing.T) {
	m, err := NewWASMModel("TestWasmModel_EnabledDomains")
	if err != nil {
		t.Fatal(err)
	}

	// First read on a fresh database returns the default
	domains, err := m.GetEnabledDomains()
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, defaultEnabledDomains, domains)

	// The default must have been written back
	results, err := impl.Dump(m.db, settingsStoreName)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || !strings.Contains(results[0], "mobbin.com") {
		t.Fatalf("Expected default list to be stored, got %v", results)
	}

	// Replace the list and read it back
	replacement := []string{"dribbble.com", "mobbin.com"}
	if err = m.SetEnabledDomains(replacement); err != nil {
		t.Fatal(err)
	}
	domains, err = m.GetEnabledDomains()
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, replacement, domains)
}
