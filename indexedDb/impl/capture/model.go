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
	"syscall/js"

	"gitlab.com/clipvault/clipvault-wasm/indexedDb/worker/capture"
	"gitlab.com/clipvault/clipvault-wasm/utils"
)

const (
	// Text representation of primary key value (keyPath).
	domainPkeyName   = "domain"
	pkeyName         = "id"
	settingsPkeyName = "key"

	// Text representation of the names of the various [idb.ObjectStore].
	domainStoreName    = "domains"
	appStoreName       = "apps"
	flowStoreName      = "flows"
	clipboardStoreName = "clipboards"
	settingsStoreName  = "settings"

	// domainStore index names.
	domainStoreTimestampIndex = "timestamp"

	// appStore index names.
	appStoreDomainIndex    = "domain"
	appStoreNameIndex      = "appName"
	appStoreTimestampIndex = "timestamp"

	// flowStore index names.
	flowStoreAppIndex       = "appId"
	flowStoreNameIndex      = "flowName"
	flowStoreTimestampIndex = "timestamp"

	// clipboardStore index names.
	clipboardStoreFlowIndex      = "flowId"
	clipboardStoreTimestampIndex = "timestamp"

	// enabledDomainsKey is the settingsStore key the list of domains capture
	// is active on is stored under.
	enabledDomainsKey = "enabledDomains"
)

// defaultEnabledDomains is written to the settingsStore the first time the
// enabled-domains setting is read and nothing is stored yet.
var defaultEnabledDomains = []string{"mobbin.com"}

// settingRow is the IndexedDb representation of a single settingsStore row.
// Value keeps its raw JSON so rows of any shape can share the store.
type settingRow struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func valueToDomain(value js.Value) (*capture.Domain, error) {
	domain := &capture.Domain{}
	err := json.Unmarshal([]byte(utils.JsToJson(value)), domain)
	return domain, err
}

func valueToApp(value js.Value) (*capture.App, error) {
	app := &capture.App{}
	err := json.Unmarshal([]byte(utils.JsToJson(value)), app)
	return app, err
}

func valueToFlow(value js.Value) (*capture.Flow, error) {
	flow := &capture.Flow{}
	err := json.Unmarshal([]byte(utils.JsToJson(value)), flow)
	return flow, err
}

func valueToClipboard(value js.Value) (*capture.ClipboardEntry, error) {
	entry := &capture.ClipboardEntry{}
	err := json.Unmarshal([]byte(utils.JsToJson(value)), entry)
	return entry, err
}

func valueToSetting(value js.Value) (*settingRow, error) {
	row := &settingRow{}
	err := json.Unmarshal([]byte(utils.JsToJson(value)), row)
	return row, err
}
