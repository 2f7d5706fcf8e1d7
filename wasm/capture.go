////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package wasm

import (
	"encoding/json"
	"syscall/js"

	"gitlab.com/clipvault/clipvault-wasm/indexedDb/worker/capture"
	"gitlab.com/clipvault/clipvault-wasm/utils"
)

// CaptureDb wraps the worker-backed capture database model so its methods can
// be passed to Javascript.
type CaptureDb struct {
	api *capture.Model
}

// NewDatabase spawns the capture database web worker and opens the database
// inside it.
//
// Parameters:
//   - args[0] - Path to the Javascript file that starts the worker (string).
//
// Returns a promise:
//   - Resolves to a Javascript representation of the [CaptureDb] object.
//   - Rejected with an error if starting the worker or opening the database
//     fails.
func NewDatabase(_ js.Value, args []js.Value) any {
	wasmJsPath := args[0].String()

	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		model, err := capture.NewWASMModel(
			capture.DefaultDatabaseName, wasmJsPath)
		if err != nil {
			reject(utils.JsTrace(err))
		} else {
			resolve(newCaptureDbJS(&CaptureDb{model}))
		}
	}

	return utils.CreatePromise(promiseFn)
}

// newCaptureDbJS creates a new Javascript compatible object (map[string]any)
// that matches the [CaptureDb] structure.
func newCaptureDbJS(cdb *CaptureDb) map[string]any {
	return map[string]any{
		"SaveClipboard":     js.FuncOf(cdb.SaveClipboard),
		"GetDomains":        js.FuncOf(cdb.GetDomains),
		"GetApps":           js.FuncOf(cdb.GetApps),
		"GetFlows":          js.FuncOf(cdb.GetFlows),
		"GetClipboards":     js.FuncOf(cdb.GetClipboards),
		"DeleteClipboard":   js.FuncOf(cdb.DeleteClipboard),
		"DeleteFlow":        js.FuncOf(cdb.DeleteFlow),
		"ClearAllData":      js.FuncOf(cdb.ClearAllData),
		"GetEnabledDomains": js.FuncOf(cdb.GetEnabledDomains),
		"SetEnabledDomains": js.FuncOf(cdb.SetEnabledDomains),
		"GetStorageInfo":    js.FuncOf(cdb.GetStorageInfo),
	}
}

// SaveClipboard stores one capture event, creating the domain, app, and flow
// records on first use.
//
// Parameters:
//   - args[0] - JSON of [capture.CaptureEvent] (Uint8Array).
//
// Returns a promise:
//   - Resolves to the JSON of the stored [capture.ClipboardEntry]
//     (Uint8Array).
//   - Rejected with an error if parsing the event or storing it fails.
func (cdb *CaptureDb) SaveClipboard(_ js.Value, args []js.Value) any {
	eventJson := utils.CopyBytesToGo(args[0])

	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		var event capture.CaptureEvent
		err := json.Unmarshal(eventJson, &event)
		if err != nil {
			// Malformed caller input needs no Go stack trace
			reject(utils.JsError(err))
			return
		}

		entry, err := cdb.api.SaveClipboard(&event)
		if err != nil {
			reject(utils.JsTrace(err))
			return
		}

		entryJson, err := json.Marshal(entry)
		if err != nil {
			reject(utils.JsTrace(err))
		} else {
			resolve(utils.CopyBytesToJS(entryJson))
		}
	}

	return utils.CreatePromise(promiseFn)
}

// GetDomains returns one page of captured domains, oldest first.
//
// Parameters:
//   - args[0] - Page number, starting at 0 (int).
//   - args[1] - Page size; 0 uses the default (int).
//
// Returns a promise:
//   - Resolves to the JSON of [capture.DomainPage] (Uint8Array). A query
//     failure inside the worker resolves to an empty page.
//   - Rejected with an error if messaging the worker fails.
func (cdb *CaptureDb) GetDomains(_ js.Value, args []js.Value) any {
	page, limit := args[0].Int(), args[1].Int()

	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		result, err := cdb.api.GetDomains(page, limit)
		if err != nil {
			reject(utils.JsTrace(err))
			return
		}
		resolveJson(resolve, reject, result)
	}

	return utils.CreatePromise(promiseFn)
}

// GetApps returns one page of apps under a domain, oldest first.
//
// Parameters:
//   - args[0] - Domain name (string).
//   - args[1] - Page number, starting at 0 (int).
//   - args[2] - Page size; 0 uses the default (int).
//
// Returns a promise:
//   - Resolves to the JSON of [capture.AppPage] (Uint8Array). A query
//     failure inside the worker resolves to an empty page.
//   - Rejected with an error if messaging the worker fails.
func (cdb *CaptureDb) GetApps(_ js.Value, args []js.Value) any {
	domain := args[0].String()
	page, limit := args[1].Int(), args[2].Int()

	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		result, err := cdb.api.GetApps(domain, page, limit)
		if err != nil {
			reject(utils.JsTrace(err))
			return
		}
		resolveJson(resolve, reject, result)
	}

	return utils.CreatePromise(promiseFn)
}

// GetFlows returns one page of flows under an app, oldest first.
//
// Parameters:
//   - args[0] - App id (string).
//   - args[1] - Page number, starting at 0 (int).
//   - args[2] - Page size; 0 uses the default (int).
//
// Returns a promise:
//   - Resolves to the JSON of [capture.FlowPage] (Uint8Array). A query
//     failure inside the worker resolves to an empty page.
//   - Rejected with an error if messaging the worker fails.
func (cdb *CaptureDb) GetFlows(_ js.Value, args []js.Value) any {
	appID := args[0].String()
	page, limit := args[1].Int(), args[2].Int()

	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		result, err := cdb.api.GetFlows(appID, page, limit)
		if err != nil {
			reject(utils.JsTrace(err))
			return
		}
		resolveJson(resolve, reject, result)
	}

	return utils.CreatePromise(promiseFn)
}

// GetClipboards returns one page of clipboard entries under a flow, newest
// first.
//
// Parameters:
//   - args[0] - Flow id (string).
//   - args[1] - Page number, starting at 0 (int).
//   - args[2] - Page size; 0 uses the default (int).
//
// Returns a promise:
//   - Resolves to the JSON of [capture.ClipboardPage] (Uint8Array). A query
//     failure inside the worker resolves to an empty page.
//   - Rejected with an error if messaging the worker fails.
func (cdb *CaptureDb) GetClipboards(_ js.Value, args []js.Value) any {
	flowID := args[0].String()
	page, limit := args[1].Int(), args[2].Int()

	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		result, err := cdb.api.GetClipboards(flowID, page, limit)
		if err != nil {
			reject(utils.JsTrace(err))
			return
		}
		resolveJson(resolve, reject, result)
	}

	return utils.CreatePromise(promiseFn)
}

// DeleteClipboard removes the single clipboard entry with the given id.
//
// Parameters:
//   - args[0] - Clipboard entry id (string).
//
// Returns a promise:
//   - Resolves on success.
//   - Rejected with an error if deletion fails.
func (cdb *CaptureDb) DeleteClipboard(_ js.Value, args []js.Value) any {
	id := args[0].String()

	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		if err := cdb.api.DeleteClipboard(id); err != nil {
			reject(utils.JsTrace(err))
		} else {
			resolve()
		}
	}

	return utils.CreatePromise(promiseFn)
}

// DeleteFlow removes the flow with the given id and every clipboard entry
// under it. The app and domain above it are kept.
//
// Parameters:
//   - args[0] - Flow id (string).
//
// Returns a promise:
//   - Resolves on success.
//   - Rejected with an error if deletion fails.
func (cdb *CaptureDb) DeleteFlow(_ js.Value, args []js.Value) any {
	flowID := args[0].String()

	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		if err := cdb.api.DeleteFlow(flowID); err != nil {
			reject(utils.JsTrace(err))
		} else {
			resolve()
		}
	}

	return utils.CreatePromise(promiseFn)
}

// ClearAllData wipes all captured data. Settings survive.
//
// Returns a promise:
//   - Resolves on success.
//   - Rejected with an error if the wipe fails.
func (cdb *CaptureDb) ClearAllData(js.Value, []js.Value) any {
	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		if err := cdb.api.ClearAllData(); err != nil {
			reject(utils.JsTrace(err))
		} else {
			resolve()
		}
	}

	return utils.CreatePromise(promiseFn)
}

// GetEnabledDomains returns the list of domains capture is active on.
//
// Returns a promise:
//   - Resolves to the JSON of an array of domain names (Uint8Array).
//   - Rejected with an error if the read fails.
func (cdb *CaptureDb) GetEnabledDomains(js.Value, []js.Value) any {
	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		domains, err := cdb.api.GetEnabledDomains()
		if err != nil {
			reject(utils.JsTrace(err))
			return
		}
		resolveJson(resolve, reject, domains)
	}

	return utils.CreatePromise(promiseFn)
}

// SetEnabledDomains replaces the list of domains capture is active on.
//
// Parameters:
//   - args[0] - JSON of an array of domain names (Uint8Array).
//
// Returns a promise:
//   - Resolves on success.
//   - Rejected with an error if parsing or storing the list fails.
func (cdb *CaptureDb) SetEnabledDomains(_ js.Value, args []js.Value) any {
	domainsJson := utils.CopyBytesToGo(args[0])

	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		var domains []string
		err := json.Unmarshal(domainsJson, &domains)
		if err != nil {
			reject(utils.JsError(err))
			return
		}

		if err = cdb.api.SetEnabledDomains(domains); err != nil {
			reject(utils.JsTrace(err))
		} else {
			resolve()
		}
	}

	return utils.CreatePromise(promiseFn)
}

// GetStorageInfo reports the origin's estimated storage usage and quota
// along with record counts across the four main collections.
//
// Returns a promise:
//   - Resolves to the JSON of [capture.StorageInfo] (Uint8Array).
//   - Rejected with an error if the counts cannot be read.
func (cdb *CaptureDb) GetStorageInfo(js.Value, []js.Value) any {
	promiseFn := func(resolve, reject func(args ...any) js.Value) {
		info, err := cdb.api.GetStorageInfo()
		if err != nil {
			reject(utils.JsTrace(err))
			return
		}
		resolveJson(resolve, reject, info)
	}

	return utils.CreatePromise(promiseFn)
}

// resolveJson resolves the promise with the JSON marshalled value or rejects
// it when marshalling fails.
func resolveJson(resolve, reject func(args ...any) js.Value, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		reject(utils.JsTrace(err))
	} else {
		resolve(utils.CopyBytesToJS(data))
	}
}
