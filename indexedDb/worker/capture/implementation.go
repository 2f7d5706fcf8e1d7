////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package capture

import (
	"encoding/json"

	"github.com/pkg/errors"

	"gitlab.com/clipvault/clipvault-wasm/worker"
)

// Model provides access to the capture database running in the web worker.
// All methods block until the worker responds or the send times out. A read
// failure inside the worker comes back as an empty page, not an error; the
// error returns here cover messaging and decoding failures.
type Model struct {
	wh *worker.Manager
}

// SaveClipboard stores one capture event, creating the domain, app, and flow
// rows on first use. Returns the stored clipboard entry.
func (m *Model) SaveClipboard(event *CaptureEvent) (*ClipboardEntry, error) {
	data, err := m.sendForData(SaveClipboardTag, event)
	if err != nil {
		return nil, err
	}

	entry := &ClipboardEntry{}
	if err = json.Unmarshal(data, entry); err != nil {
		return nil, errors.Wrapf(err,
			"failed to JSON unmarshal %T from worker", entry)
	}
	return entry, nil
}

// GetDomains returns one page of captured domains, oldest first.
func (m *Model) GetDomains(page, limit int) (*DomainPage, error) {
	data, err := m.sendForData(
		GetDomainsTag, &PageRequest{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	result := &DomainPage{}
	if err = json.Unmarshal(data, result); err != nil {
		return nil, errors.Wrapf(err,
			"failed to JSON unmarshal %T from worker", result)
	}
	return result, nil
}

// GetApps returns one page of apps under the domain, oldest first.
func (m *Model) GetApps(domain string, page, limit int) (*AppPage, error) {
	data, err := m.sendForData(
		GetAppsTag, &PageRequest{Key: domain, Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	result := &AppPage{}
	if err = json.Unmarshal(data, result); err != nil {
		return nil, errors.Wrapf(err,
			"failed to JSON unmarshal %T from worker", result)
	}
	return result, nil
}

// GetFlows returns one page of flows under the app, oldest first.
func (m *Model) GetFlows(appID string, page, limit int) (*FlowPage, error) {
	data, err := m.sendForData(
		GetFlowsTag, &PageRequest{Key: appID, Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	result := &FlowPage{}
	if err = json.Unmarshal(data, result); err != nil {
		return nil, errors.Wrapf(err,
			"failed to JSON unmarshal %T from worker", result)
	}
	return result, nil
}

// GetClipboards returns one page of clipboard entries under the flow, newest
// first.
func (m *Model) GetClipboards(
	flowID string, page, limit int) (*ClipboardPage, error) {
	data, err := m.sendForData(
		GetClipboardsTag, &PageRequest{Key: flowID, Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	result := &ClipboardPage{}
	if err = json.Unmarshal(data, result); err != nil {
		return nil, errors.Wrapf(err,
			"failed to JSON unmarshal %T from worker", result)
	}
	return result, nil
}

// DeleteClipboard removes the single clipboard entry with the given id.
func (m *Model) DeleteClipboard(id string) error {
	return m.sendForSuccess(DeleteClipboardTag, &DeleteRequest{ID: id})
}

// DeleteFlow removes the flow and every clipboard entry under it.
func (m *Model) DeleteFlow(flowID string) error {
	return m.sendForSuccess(DeleteFlowTag, &DeleteRequest{ID: flowID})
}

// ClearAllData wipes all captured data. Settings survive.
func (m *Model) ClearAllData() error {
	return m.sendForSuccess(ClearAllDataTag, nil)
}

// GetEnabledDomains returns the list of domains capture is active on.
func (m *Model) GetEnabledDomains() ([]string, error) {
	data, err := m.sendForData(GetEnabledDomainsTag, nil)
	if err != nil {
		return nil, err
	}

	msg := &EnabledDomainsMessage{}
	if err = json.Unmarshal(data, msg); err != nil {
		return nil, errors.Wrapf(err,
			"failed to JSON unmarshal %T from worker", msg)
	}
	return msg.Domains, nil
}

// SetEnabledDomains replaces the list of domains capture is active on.
func (m *Model) SetEnabledDomains(domains []string) error {
	return m.sendForSuccess(
		SetEnabledDomainsTag, &EnabledDomainsMessage{Domains: domains})
}

// GetStorageInfo reports the origin's estimated storage usage and quota
// along with record counts across the four main collections.
func (m *Model) GetStorageInfo() (*StorageInfo, error) {
	data, err := m.sendForData(GetStorageInfoTag, nil)
	if err != nil {
		return nil, err
	}

	info := &StorageInfo{}
	if err = json.Unmarshal(data, info); err != nil {
		return nil, errors.Wrapf(err,
			"failed to JSON unmarshal %T from worker", info)
	}
	return info, nil
}

// sendForData sends the request to the worker and unpacks the [Reply]
// envelope, returning the raw data payload.
func (m *Model) sendForData(tag worker.Tag, request any) (json.RawMessage, error) {
	payload, err := marshalRequest(tag, request)
	if err != nil {
		return nil, err
	}

	response, err := m.wh.SendMessage(tag, payload)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send message %q", tag)
	}

	reply := Reply{}
	if err = json.Unmarshal(response, &reply); err != nil {
		return nil, errors.Wrapf(err,
			"failed to JSON unmarshal %T for %q from worker", reply, tag)
	}
	if reply.Error != "" {
		return nil, errors.New(reply.Error)
	}
	return reply.Data, nil
}

// sendForSuccess sends the request to the worker and unpacks the
// [SuccessResponse].
func (m *Model) sendForSuccess(tag worker.Tag, request any) error {
	payload, err := marshalRequest(tag, request)
	if err != nil {
		return err
	}

	response, err := m.wh.SendMessage(tag, payload)
	if err != nil {
		return errors.Wrapf(err, "failed to send message %q", tag)
	}

	result := SuccessResponse{}
	if err = json.Unmarshal(response, &result); err != nil {
		return errors.Wrapf(err,
			"failed to JSON unmarshal %T for %q from worker", result, tag)
	}
	if !result.Success {
		return errors.New(result.Error)
	}
	return nil
}

func marshalRequest(tag worker.Tag, request any) ([]byte, error) {
	if request == nil {
		return nil, nil
	}
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrapf(err,
			"failed to JSON marshal %T for %q", request, tag)
	}
	return payload, nil
}
