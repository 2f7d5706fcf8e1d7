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

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"gitlab.com/clipvault/clipvault-wasm/indexedDb/worker/capture"
	"gitlab.com/clipvault/clipvault-wasm/worker"
)

// manager handles the storage model and the message callbacks, which is used
// to send information between the model and the main thread.
type manager struct {
	wtm   *worker.ThreadManager
	model *wasmModel
}

// registerCallbacks registers all the reception callbacks to manage messages
// from the main thread.
func (m *manager) registerCallbacks() {
	m.wtm.RegisterCallback(capture.NewModelTag, m.newModelCB)
	m.wtm.RegisterCallback(capture.SaveClipboardTag, m.saveClipboardCB)
	m.wtm.RegisterCallback(capture.GetDomainsTag, m.getDomainsCB)
	m.wtm.RegisterCallback(capture.GetAppsTag, m.getAppsCB)
	m.wtm.RegisterCallback(capture.GetFlowsTag, m.getFlowsCB)
	m.wtm.RegisterCallback(capture.GetClipboardsTag, m.getClipboardsCB)
	m.wtm.RegisterCallback(capture.DeleteClipboardTag, m.deleteClipboardCB)
	m.wtm.RegisterCallback(capture.DeleteFlowTag, m.deleteFlowCB)
	m.wtm.RegisterCallback(capture.ClearAllDataTag, m.clearAllDataCB)
	m.wtm.RegisterCallback(capture.GetEnabledDomainsTag, m.getEnabledDomainsCB)
	m.wtm.RegisterCallback(capture.SetEnabledDomainsTag, m.setEnabledDomainsCB)
	m.wtm.RegisterCallback(capture.GetStorageInfoTag, m.getStorageInfoCB)
}

// newModelCB is the callback for NewModel. Returns an empty slice on success
// or an error message on failure.
func (m *manager) newModelCB(message []byte) ([]byte, error) {
	var msg capture.NewModelMessage
	err := json.Unmarshal(message, &msg)
	if err != nil {
		return []byte(errors.Wrapf(err,
			"failed to JSON unmarshal %T from main thread", msg).Error()), nil
	}

	m.model, err = NewWASMModel(msg.DatabaseName)
	if err != nil {
		return []byte(err.Error()), nil
	}

	return []byte{}, nil
}

// saveClipboardCB is the callback for wasmModel.SaveClipboard. Returns a
// [capture.Reply] holding the stored entry.
func (m *manager) saveClipboardCB(message []byte) ([]byte, error) {
	if m.model == nil {
		return replyError(errors.New("model has not been initialised")), nil
	}

	var event capture.CaptureEvent
	err := json.Unmarshal(message, &event)
	if err != nil {
		return replyError(errors.Wrapf(err,
			"failed to JSON unmarshal %T from main thread", event)), nil
	}

	entry, err := m.model.SaveClipboard(&event)
	if err != nil {
		return replyError(err), nil
	}

	return replyData(entry), nil
}

// getDomainsCB is the callback for wasmModel.GetDomains. Returns a
// [capture.Reply] holding a [capture.DomainPage]. Failures are logged and
// degrade to an empty page so the UI renders an empty list instead of an
// error.
func (m *manager) getDomainsCB(message []byte) ([]byte, error) {
	empty := &capture.DomainPage{Data: []capture.Domain{}}
	if m.model == nil {
		return replyEmptyPage(
			errors.New("model has not been initialised"), empty), nil
	}

	var msg capture.PageRequest
	err := json.Unmarshal(message, &msg)
	if err != nil {
		return replyEmptyPage(errors.Wrapf(err,
			"failed to JSON unmarshal %T from main thread", msg), empty), nil
	}

	page, err := m.model.GetDomains(msg.Page, msg.Limit)
	if err != nil {
		return replyEmptyPage(err, empty), nil
	}

	return replyData(page), nil
}

// getAppsCB is the callback for wasmModel.GetApps. Returns a [capture.Reply]
// holding a [capture.AppPage]. Failures degrade to an empty page.
func (m *manager) getAppsCB(message []byte) ([]byte, error) {
	empty := &capture.AppPage{Data: []capture.App{}}
	if m.model == nil {
		return replyEmptyPage(
			errors.New("model has not been initialised"), empty), nil
	}

	var msg capture.PageRequest
	err := json.Unmarshal(message, &msg)
	if err != nil {
		return replyEmptyPage(errors.Wrapf(err,
			"failed to JSON unmarshal %T from main thread", msg), empty), nil
	}

	page, err := m.model.GetApps(msg.Key, msg.Page, msg.Limit)
	if err != nil {
		return replyEmptyPage(err, empty), nil
	}

	return replyData(page), nil
}

// getFlowsCB is the callback for wasmModel.GetFlows. Returns a
// [capture.Reply] holding a [capture.FlowPage]. Failures degrade to an empty
// page.
func (m *manager) getFlowsCB(message []byte) ([]byte, error) {
	empty := &capture.FlowPage{Data: []capture.Flow{}}
	if m.model == nil {
		return replyEmptyPage(
			errors.New("model has not been initialised"), empty), nil
	}

	var msg capture.PageRequest
	err := json.Unmarshal(message, &msg)
	if err != nil {
		return replyEmptyPage(errors.Wrapf(err,
			"failed to JSON unmarshal %T from main thread", msg), empty), nil
	}

	page, err := m.model.GetFlows(msg.Key, msg.Page, msg.Limit)
	if err != nil {
		return replyEmptyPage(err, empty), nil
	}

	return replyData(page), nil
}

// getClipboardsCB is the callback for wasmModel.GetClipboards. Returns a
// [capture.Reply] holding a [capture.ClipboardPage]. Failures degrade to an
// empty page.
func (m *manager) getClipboardsCB(message []byte) ([]byte, error) {
	empty := &capture.ClipboardPage{Data: []capture.ClipboardEntry{}}
	if m.model == nil {
		return replyEmptyPage(
			errors.New("model has not been initialised"), empty), nil
	}

	var msg capture.PageRequest
	err := json.Unmarshal(message, &msg)
	if err != nil {
		return replyEmptyPage(errors.Wrapf(err,
			"failed to JSON unmarshal %T from main thread", msg), empty), nil
	}

	page, err := m.model.GetClipboards(msg.Key, msg.Page, msg.Limit)
	if err != nil {
		return replyEmptyPage(err, empty), nil
	}

	return replyData(page), nil
}

// deleteClipboardCB is the callback for wasmModel.DeleteClipboard. Returns a
// [capture.SuccessResponse].
func (m *manager) deleteClipboardCB(message []byte) ([]byte, error) {
	if m.model == nil {
		return replySuccess(errors.New("model has not been initialised")), nil
	}

	var msg capture.DeleteRequest
	err := json.Unmarshal(message, &msg)
	if err != nil {
		return replySuccess(errors.Wrapf(err,
			"failed to JSON unmarshal %T from main thread", msg)), nil
	}

	return replySuccess(m.model.DeleteClipboard(msg.ID)), nil
}

// deleteFlowCB is the callback for wasmModel.DeleteFlow. Returns a
// [capture.SuccessResponse].
func (m *manager) deleteFlowCB(message []byte) ([]byte, error) {
	if m.model == nil {
		return replySuccess(errors.New("model has not been initialised")), nil
	}

	var msg capture.DeleteRequest
	err := json.Unmarshal(message, &msg)
	if err != nil {
		return replySuccess(errors.Wrapf(err,
			"failed to JSON unmarshal %T from main thread", msg)), nil
	}

	return replySuccess(m.model.DeleteFlow(msg.ID)), nil
}

// clearAllDataCB is the callback for wasmModel.ClearAll. Returns a
// [capture.SuccessResponse].
func (m *manager) clearAllDataCB([]byte) ([]byte, error) {
	if m.model == nil {
		return replySuccess(errors.New("model has not been initialised")), nil
	}

	return replySuccess(m.model.ClearAll()), nil
}

// getEnabledDomainsCB is the callback for wasmModel.GetEnabledDomains.
// Returns a [capture.Reply] holding a [capture.EnabledDomainsMessage].
func (m *manager) getEnabledDomainsCB([]byte) ([]byte, error) {
	if m.model == nil {
		return replyError(errors.New("model has not been initialised")), nil
	}

	domains, err := m.model.GetEnabledDomains()
	if err != nil {
		return replyError(err), nil
	}

	return replyData(&capture.EnabledDomainsMessage{Domains: domains}), nil
}

// setEnabledDomainsCB is the callback for wasmModel.SetEnabledDomains.
// Returns a [capture.SuccessResponse].
func (m *manager) setEnabledDomainsCB(message []byte) ([]byte, error) {
	if m.model == nil {
		return replySuccess(errors.New("model has not been initialised")), nil
	}

	var msg capture.EnabledDomainsMessage
	err := json.Unmarshal(message, &msg)
	if err != nil {
		return replySuccess(errors.Wrapf(err,
			"failed to JSON unmarshal %T from main thread", msg)), nil
	}

	return replySuccess(m.model.SetEnabledDomains(msg.Domains)), nil
}

// getStorageInfoCB is the callback for wasmModel.GetStorageInfo. Returns a
// [capture.Reply] holding a [capture.StorageInfo].
func (m *manager) getStorageInfoCB([]byte) ([]byte, error) {
	if m.model == nil {
		return replyError(errors.New("model has not been initialised")), nil
	}

	info, err := m.model.GetStorageInfo()
	if err != nil {
		return replyError(err), nil
	}

	return replyData(info), nil
}

// replyData JSON marshals the value into the data field of a [capture.Reply].
func replyData(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return replyError(errors.Wrapf(err, "failed to JSON marshal %T", v))
	}
	return marshalReply(capture.Reply{Data: data})
}

// replyEmptyPage logs a failed list query and packages the given zero-value
// page in its place. List queries never reply with an error; they degrade to
// an empty result so view code keeps rendering.
func replyEmptyPage(err error, page any) []byte {
	jww.ERROR.Printf("[CV] %+v", err)
	return replyData(page)
}

// replyError packages the error into a [capture.Reply].
func replyError(err error) []byte {
	jww.ERROR.Printf("[CV] %+v", err)
	return marshalReply(capture.Reply{Error: err.Error()})
}

// replySuccess packages the result of a mutation into a
// [capture.SuccessResponse].
func replySuccess(err error) []byte {
	response := capture.SuccessResponse{Success: err == nil}
	if err != nil {
		jww.ERROR.Printf("[CV] %+v", err)
		response.Error = err.Error()
	}

	data, err := json.Marshal(response)
	if err != nil {
		jww.FATAL.Panicf("Failed to JSON marshal %T: %+v", response, err)
	}
	return data
}

// marshalReply JSON marshals the reply envelope.
func marshalReply(reply capture.Reply) []byte {
	data, err := json.Marshal(reply)
	if err != nil {
		jww.FATAL.Panicf("Failed to JSON marshal %T: %+v", reply, err)
	}
	return data
}
