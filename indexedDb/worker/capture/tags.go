////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package capture

import "gitlab.com/clipvault/clipvault-wasm/worker"

// List of tags that can be used when sending a message or registering a
// handler to receive a message.
const (
	NewModelTag          worker.Tag = "NewModel"
	SaveClipboardTag     worker.Tag = "SaveClipboard"
	GetDomainsTag        worker.Tag = "GetDomains"
	GetAppsTag           worker.Tag = "GetApps"
	GetFlowsTag          worker.Tag = "GetFlows"
	GetClipboardsTag     worker.Tag = "GetClipboards"
	DeleteClipboardTag   worker.Tag = "DeleteClipboard"
	DeleteFlowTag        worker.Tag = "DeleteFlow"
	ClearAllDataTag      worker.Tag = "ClearAllData"
	GetEnabledDomainsTag worker.Tag = "GetEnabledDomains"
	SetEnabledDomainsTag worker.Tag = "SetEnabledDomains"
	GetStorageInfoTag    worker.Tag = "GetStorageInfo"
)
