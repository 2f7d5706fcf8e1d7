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
	"sort"
	"strings"
	"syscall/js"
	"time"

	"github.com/hack-pad/go-indexeddb/idb"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"gitlab.com/clipvault/clipvault-wasm/indexedDb/impl"
	"gitlab.com/clipvault/clipvault-wasm/indexedDb/worker/capture"
	"gitlab.com/clipvault/clipvault-wasm/utils"
)

// wasmModel implements the capture storage model using [idb.Database].
type wasmModel struct {
	db *idb.Database
}

// SaveClipboard stores one capture event. The domain, app, and flow rows are
// created on first use and left untouched on every save after that, so their
// timestamps always mark the first capture. The clipboard entry itself is
// always inserted as a new row.
//
// Saves are idempotent at the hierarchy level: the row keys are derived from
// the event fields, so concurrent saves for the same domain, app, and flow
// converge on the same rows.
func (w *wasmModel) SaveClipboard(
	event *capture.CaptureEvent) (*capture.ClipboardEntry, error) {
	parentErr := errors.New("failed to SaveClipboard")

	if event.Domain == "" || event.AppName == "" || event.FlowName == "" {
		return nil, errors.WithMessage(parentErr,
			"domain, appName, and flowName are all required")
	}

	ts := event.Timestamp
	if ts == "" {
		ts = capture.FormatTimestamp(time.Now())
	}

	if err := w.ensureDomain(event.Domain, ts); err != nil {
		return nil, errors.WithMessage(parentErr, err.Error())
	}

	appID := capture.AppID(event.Domain, event.AppName)
	err := w.ensureApp(appID, event.Domain, event.AppName, ts)
	if err != nil {
		return nil, errors.WithMessage(parentErr, err.Error())
	}

	flowID := capture.FlowID(appID, event.FlowName)
	err = w.ensureFlow(flowID, appID, event.FlowName, ts)
	if err != nil {
		return nil, errors.WithMessage(parentErr, err.Error())
	}

	preview := event.ContentPreview
	if preview == "" {
		preview = capture.MakeContentPreview(event.ClipboardContent)
	}

	entry := &capture.ClipboardEntry{
		ID:             capture.NewClipboardID(time.Now()),
		FlowID:         flowID,
		Content:        event.ClipboardContent,
		ContentPreview: preview,
		IsComplexData:  event.IsComplexData,
		Timestamp:      ts,
		URL:            event.URL,
	}
	if err = w.insert(clipboardStoreName, entry); err != nil {
		return nil, errors.WithMessage(parentErr, err.Error())
	}

	jww.DEBUG.Printf("Successfully saved clipboard %s under flow %s",
		entry.ID, flowID)
	return entry, nil
}

// ensureDomain inserts the Domain row if it does not exist yet.
func (w *wasmModel) ensureDomain(domain, ts string) error {
	_, err := impl.Get(w.db, domainStoreName, js.ValueOf(domain))
	if err == nil {
		return nil
	} else if !strings.Contains(err.Error(), impl.ErrDoesNotExist) {
		return err
	}

	return w.insert(domainStoreName,
		&capture.Domain{Domain: domain, Timestamp: ts})
}

// ensureApp inserts the App row if it does not exist yet.
func (w *wasmModel) ensureApp(appID, domain, appName, ts string) error {
	_, err := impl.Get(w.db, appStoreName, js.ValueOf(appID))
	if err == nil {
		return nil
	} else if !strings.Contains(err.Error(), impl.ErrDoesNotExist) {
		return err
	}

	return w.insert(appStoreName, &capture.App{
		ID:        appID,
		Domain:    domain,
		AppName:   appName,
		Timestamp: ts,
	})
}

// ensureFlow inserts the Flow row if it does not exist yet.
func (w *wasmModel) ensureFlow(flowID, appID, flowName, ts string) error {
	_, err := impl.Get(w.db, flowStoreName, js.ValueOf(flowID))
	if err == nil {
		return nil
	} else if !strings.Contains(err.Error(), impl.ErrDoesNotExist) {
		return err
	}

	return w.insert(flowStoreName, &capture.Flow{
		ID:        flowID,
		AppID:     appID,
		FlowName:  flowName,
		Timestamp: ts,
	})
}

// insert JSON marshals the row and puts it into the named [idb.ObjectStore].
func (w *wasmModel) insert(objectStoreName string, row any) error {
	rowJson, err := json.Marshal(row)
	if err != nil {
		return errors.Errorf("unable to marshal %T: %+v", row, err)
	}
	rowObj, err := utils.JsonToJS(rowJson)
	if err != nil {
		return errors.Errorf("unable to convert %T to js.Value: %+v", row, err)
	}

	_, err = impl.Put(w.db, objectStoreName, rowObj)
	if err != nil {
		return errors.Errorf("unable to put %T: %+v", row, err)
	}
	return nil
}

// GetDomains returns one page of Domain rows, oldest first.
func (w *wasmModel) GetDomains(page, limit int) (*capture.DomainPage, error) {
	page = capture.NormalizePage(page)
	limit = capture.NormalizeLimit(limit, capture.DefaultListLimit)

	rowObjs, err := impl.GetAll(w.db, domainStoreName)
	if err != nil {
		return nil, err
	}

	domains := make([]capture.Domain, 0, len(rowObjs))
	for _, rowObj := range rowObjs {
		domain, err := valueToDomain(rowObj)
		if err != nil {
			return nil, errors.Errorf("unable to unmarshal Domain: %+v", err)
		}
		domains = append(domains, *domain)
	}

	// Oldest first, domain name breaking timestamp ties
	sort.Slice(domains, func(i, j int) bool {
		if domains[i].Timestamp != domains[j].Timestamp {
			return domains[i].Timestamp < domains[j].Timestamp
		}
		return domains[i].Domain < domains[j].Domain
	})

	start, end := capture.PageBounds(page, limit, len(domains))
	return &capture.DomainPage{
		Data:     domains[start:end],
		PageInfo: capture.NewPageInfo(page, limit, len(domains)),
	}, nil
}

// GetApps returns one page of App rows under the given domain, oldest first.
func (w *wasmModel) GetApps(
	domain string, page, limit int) (*capture.AppPage, error) {
	page = capture.NormalizePage(page)
	limit = capture.NormalizeLimit(limit, capture.DefaultListLimit)

	rowObjs, err := impl.GetAllIndex(
		w.db, appStoreName, appStoreDomainIndex, js.ValueOf(domain))
	if err != nil {
		return nil, err
	}

	apps := make([]capture.App, 0, len(rowObjs))
	for _, rowObj := range rowObjs {
		app, err := valueToApp(rowObj)
		if err != nil {
			return nil, errors.Errorf("unable to unmarshal App: %+v", err)
		}
		apps = append(apps, *app)
	}

	// Oldest first, id breaking timestamp ties
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].Timestamp != apps[j].Timestamp {
			return apps[i].Timestamp < apps[j].Timestamp
		}
		return apps[i].ID < apps[j].ID
	})

	start, end := capture.PageBounds(page, limit, len(apps))
	return &capture.AppPage{
		Data:     apps[start:end],
		PageInfo: capture.NewPageInfo(page, limit, len(apps)),
	}, nil
}

// GetFlows returns one page of Flow rows under the given app, oldest first.
func (w *wasmModel) GetFlows(
	appID string, page, limit int) (*capture.FlowPage, error) {
	page = capture.NormalizePage(page)
	limit = capture.NormalizeLimit(limit, capture.DefaultListLimit)

	rowObjs, err := impl.GetAllIndex(
		w.db, flowStoreName, flowStoreAppIndex, js.ValueOf(appID))
	if err != nil {
		return nil, err
	}

	flows := make([]capture.Flow, 0, len(rowObjs))
	for _, rowObj := range rowObjs {
		flow, err := valueToFlow(rowObj)
		if err != nil {
			return nil, errors.Errorf("unable to unmarshal Flow: %+v", err)
		}
		flows = append(flows, *flow)
	}

	// Oldest first, id breaking timestamp ties
	sort.Slice(flows, func(i, j int) bool {
		if flows[i].Timestamp != flows[j].Timestamp {
			return flows[i].Timestamp < flows[j].Timestamp
		}
		return flows[i].ID < flows[j].ID
	})

	start, end := capture.PageBounds(page, limit, len(flows))
	return &capture.FlowPage{
		Data:     flows[start:end],
		PageInfo: capture.NewPageInfo(page, limit, len(flows)),
	}, nil
}

// GetClipboards returns one page of ClipboardEntry rows under the given flow,
// newest first.
func (w *wasmModel) GetClipboards(
	flowID string, page, limit int) (*capture.ClipboardPage, error) {
	page = capture.NormalizePage(page)
	limit = capture.NormalizeLimit(limit, capture.DefaultClipboardLimit)

	rowObjs, err := impl.GetAllIndex(
		w.db, clipboardStoreName, clipboardStoreFlowIndex, js.ValueOf(flowID))
	if err != nil {
		return nil, err
	}

	entries := make([]capture.ClipboardEntry, 0, len(rowObjs))
	for _, rowObj := range rowObjs {
		entry, err := valueToClipboard(rowObj)
		if err != nil {
			return nil, errors.Errorf(
				"unable to unmarshal ClipboardEntry: %+v", err)
		}
		entries = append(entries, *entry)
	}

	// Newest first, id breaking timestamp ties
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp != entries[j].Timestamp {
			return entries[i].Timestamp > entries[j].Timestamp
		}
		return entries[i].ID > entries[j].ID
	})

	start, end := capture.PageBounds(page, limit, len(entries))
	return &capture.ClipboardPage{
		Data:     entries[start:end],
		PageInfo: capture.NewPageInfo(page, limit, len(entries)),
	}, nil
}

// DeleteClipboard removes the single clipboard entry with the given id. The
// flow, app, and domain rows above it are kept, even when this was the flow's
// last entry; they record the history of capture.
func (w *wasmModel) DeleteClipboard(id string) error {
	return impl.Delete(w.db, clipboardStoreName, js.ValueOf(id))
}

// DeleteFlow removes the flow with the given id and every clipboard entry
// under it. The app and domain rows above it are kept.
func (w *wasmModel) DeleteFlow(flowID string) error {
	parentErr := errors.New("failed to DeleteFlow")

	if err := w.deleteClipboardsByFlow(flowID); err != nil {
		return errors.WithMessage(parentErr, err.Error())
	}

	err := impl.Delete(w.db, flowStoreName, js.ValueOf(flowID))
	if err != nil {
		return errors.WithMessage(parentErr, err.Error())
	}

	jww.DEBUG.Printf("Successfully deleted flow: %s", flowID)
	return nil
}

// deleteClipboardsByFlow is a private helper that uses
// clipboardStoreFlowIndex to delete all ClipboardEntry with the given flow id.
func (w *wasmModel) deleteClipboardsByFlow(flowID string) error {
	parentErr := errors.New("failed to deleteClipboardsByFlow")

	// Prepare the Transaction
	txn, err := w.db.Transaction(idb.TransactionReadWrite, clipboardStoreName)
	if err != nil {
		return errors.WithMessagef(parentErr,
			"Unable to create Transaction: %+v", err)
	}
	store, err := txn.ObjectStore(clipboardStoreName)
	if err != nil {
		return errors.WithMessagef(parentErr,
			"Unable to get ObjectStore: %+v", err)
	}
	index, err := store.Index(clipboardStoreFlowIndex)
	if err != nil {
		return errors.WithMessagef(parentErr,
			"Unable to get Index: %+v", err)
	}

	// Set up the operation
	keyRange, err := idb.NewKeyRangeOnly(js.ValueOf(flowID))
	if err != nil {
		return errors.WithMessagef(parentErr,
			"Unable to create KeyRange: %+v", err)
	}
	cursorRequest, err := index.OpenCursorRange(keyRange, idb.CursorNext)
	if err != nil {
		return errors.WithMessagef(parentErr, "Unable to open Cursor: %+v", err)
	}

	// Perform the operation
	err = impl.SendCursorRequest(cursorRequest,
		func(cursor *idb.CursorWithValue) error {
			_, err := cursor.Delete()
			return err
		})
	if err != nil {
		return errors.WithMessagef(parentErr,
			"Unable to delete ClipboardEntry data: %+v", err)
	}
	return nil
}

// ClearAll wipes every capture row from all four stores. Settings are not
// touched.
func (w *wasmModel) ClearAll() error {
	parentErr := errors.New("failed to ClearAll")

	// Children first so a failure part way cannot orphan rows under a
	// missing parent
	for _, storeName := range []string{clipboardStoreName, flowStoreName,
		appStoreName, domainStoreName} {
		if err := impl.Clear(w.db, storeName); err != nil {
			return errors.WithMessage(parentErr, err.Error())
		}
	}

	jww.INFO.Printf("Successfully cleared all capture data")
	return nil
}

// GetStorageInfo reports the origin's estimated storage usage and quota
// along with the row counts of the four capture stores. The counts always
// come from the database; usage and quota fall back to zero when the
// estimate API is unavailable.
func (w *wasmModel) GetStorageInfo() (*capture.StorageInfo, error) {
	domains, err := impl.Count(w.db, domainStoreName)
	if err != nil {
		return nil, err
	}
	apps, err := impl.Count(w.db, appStoreName)
	if err != nil {
		return nil, err
	}
	flows, err := impl.Count(w.db, flowStoreName)
	if err != nil {
		return nil, err
	}
	clipboards, err := impl.Count(w.db, clipboardStoreName)
	if err != nil {
		return nil, err
	}

	usage, quota := storageEstimate()

	return &capture.StorageInfo{
		Usage:      usage,
		Quota:      quota,
		Domains:    int(domains),
		Apps:       int(apps),
		Flows:      int(flows),
		Clipboards: int(clipboards),
	}, nil
}

// storageEstimate asks navigator.storage.estimate() for the origin's usage
// and quota, in bytes. Returns zeros when the API is unavailable or the
// estimate rejects.
func storageEstimate() (usage, quota uint64) {
	navStorage := js.Global().Get("navigator").Get("storage")
	if !navStorage.Truthy() {
		return 0, 0
	}

	result, awaitErr := utils.Await(navStorage.Call("estimate"))
	if awaitErr != nil {
		jww.WARN.Printf("Failed to estimate storage usage: %s",
			utils.JsToJson(awaitErr[0]))
		return 0, 0
	}

	estimate := result[0]
	if v := estimate.Get("usage"); v.Type() == js.TypeNumber {
		usage = uint64(v.Float())
	}
	if v := estimate.Get("quota"); v.Type() == js.TypeNumber {
		quota = uint64(v.Float())
	}
	return usage, quota
}

// GetEnabledDomains returns the list of domains capture is active on. When
// nothing is stored yet, the default list is stored and returned.
func (w *wasmModel) GetEnabledDomains() ([]string, error) {
	rawValue, err := w.getSetting(enabledDomainsKey)
	if err != nil {
		if !strings.Contains(err.Error(), impl.ErrDoesNotExist) {
			return nil, err
		}
	}

	var domains []string
	if rawValue != nil {
		if err = json.Unmarshal(rawValue, &domains); err != nil {
			return nil, errors.Errorf(
				"unable to unmarshal enabled domains: %+v", err)
		}
	}

	// Initialise the default list on first read
	if len(domains) == 0 {
		domains = defaultEnabledDomains
		if err = w.SetEnabledDomains(domains); err != nil {
			return nil, err
		}
	}

	return domains, nil
}

// SetEnabledDomains replaces the list of domains capture is active on.
func (w *wasmModel) SetEnabledDomains(domains []string) error {
	value, err := json.Marshal(domains)
	if err != nil {
		return errors.Errorf("unable to marshal enabled domains: %+v", err)
	}
	return w.saveSetting(enabledDomainsKey, value)
}

// getSetting returns the raw JSON value stored under the key in the
// settingsStore.
func (w *wasmModel) getSetting(key string) (json.RawMessage, error) {
	rowObj, err := impl.Get(w.db, settingsStoreName, js.ValueOf(key))
	if err != nil {
		return nil, err
	}

	row, err := valueToSetting(rowObj)
	if err != nil {
		return nil, errors.Errorf("unable to unmarshal setting %q: %+v", key, err)
	}
	return row.Value, nil
}

// saveSetting stores the raw JSON value under the key in the settingsStore,
// overwriting any previous value.
func (w *wasmModel) saveSetting(key string, value json.RawMessage) error {
	return w.insert(settingsStoreName, &settingRow{Key: key, Value: value})
}
