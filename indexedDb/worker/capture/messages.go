////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package capture

import "encoding/json"

// CaptureEvent is the payload of one clipboard capture, produced by the
// content script when a copy is detected on an enabled domain. It is JSON
// marshalled and sent to the worker for SaveClipboard.
type CaptureEvent struct {
	Domain           string `json:"domain"`
	AppName          string `json:"appName"`
	FlowName         string `json:"flowName"`
	ClipboardContent string `json:"clipboardContent"`
	ContentPreview   string `json:"contentPreview"`
	IsComplexData    bool   `json:"isComplexData"`
	Timestamp        string `json:"timestamp"`
	URL              string `json:"url"`
}

// NewModelMessage is JSON marshalled and sent to the worker for NewModel.
type NewModelMessage struct {
	DatabaseName string `json:"databaseName"`
}

// PageRequest asks the worker for one page of a collection. Key is the
// parent filter: the domain for GetApps, the app id for GetFlows, and the
// flow id for GetClipboards. It is unused for GetDomains.
type PageRequest struct {
	Key   string `json:"key,omitempty"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// DeleteRequest identifies the record to remove: a clipboard id for
// DeleteClipboard or a flow id for DeleteFlow.
type DeleteRequest struct {
	ID string `json:"id"`
}

// Reply is the worker's response envelope for operations that return data.
// Exactly one of Error and Data is set.
type Reply struct {
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// SuccessResponse is returned by the worker for every mutation.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// EnabledDomainsMessage carries the enabled-domains setting in both
// directions.
type EnabledDomainsMessage struct {
	Domains []string `json:"domains"`
}

// StorageInfo reports the origin's estimated storage usage and quota, in
// bytes, along with record counts across the four main collections. Usage
// and quota are zero when the browser offers no estimate.
type StorageInfo struct {
	Usage      uint64 `json:"usage"`
	Quota      uint64 `json:"quota"`
	Domains    int    `json:"domains"`
	Apps       int    `json:"apps"`
	Flows      int    `json:"flows"`
	Clipboards int    `json:"clipboards"`
}
