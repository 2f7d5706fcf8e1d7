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

	"gitlab.com/clipvault/clipvault-wasm/storage"
	"gitlab.com/clipvault/clipvault-wasm/worker"
)

// DefaultDatabaseName is the name of the capture database. A single database
// is shared by every browsing context of the extension.
const DefaultDatabaseName = "ClipVault"

// NewWASMModel spawns the database web worker from the given Javascript file
// and opens the named capture database inside it. Returns a [Model] for
// issuing operations against the worker.
func NewWASMModel(databaseName, wasmJsPath string) (*Model, error) {
	wh, err := worker.NewManager(wasmJsPath, "captureIndexedDb", true)
	if err != nil {
		return nil, err
	}

	// Store the database name
	err = storage.StoreIndexedDb(databaseName)
	if err != nil {
		return nil, err
	}

	msg := NewModelMessage{DatabaseName: databaseName}
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	response, err := wh.SendMessage(NewModelTag, payload)
	if err != nil {
		return nil, errors.Wrapf(err,
			"failed to send message %q", NewModelTag)
	} else if len(response) > 0 {
		return nil, errors.New(string(response))
	}

	return &Model{wh}, nil
}
