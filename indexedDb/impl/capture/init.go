////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/hack-pad/go-indexeddb/idb"
	jww "github.com/spf13/jwalterweatherman"

	"gitlab.com/clipvault/clipvault-wasm/indexedDb/impl"
)

// currentVersion is the current version of the IndexedDb runtime. Used for
// migration purposes.
const currentVersion uint = 3

// captureStoreNames are the stores holding capture data. They are wiped and
// rebuilt on schema upgrade; the settingsStore is not listed and survives
// every migration.
var captureStoreNames = []string{
	domainStoreName, appStoreName, flowStoreName, clipboardStoreName}

// NewWASMModel creates the given [idb.Database] and returns a wasmModel.
func NewWASMModel(databaseName string) (*wasmModel, error) {
	// Attempt to open database object
	ctx, cancel := impl.NewContext()
	defer cancel()
	openRequest, err := idb.Global().Open(ctx, databaseName, currentVersion,
		func(db *idb.Database, oldVersion, newVersion uint) error {
			if oldVersion == newVersion {
				jww.INFO.Printf("IndexDb version for %s is current: v%d",
					databaseName, newVersion)
				return nil
			}

			jww.INFO.Printf("IndexDb upgrade required for %s: v%d -> v%d",
				databaseName, oldVersion, newVersion)

			// Schema upgrades are destructive for capture data: the previous
			// generations stored denormalized entries that cannot be carried
			// forward. Settings are preserved across every version.
			return v3Upgrade(db, oldVersion)
		})
	if err != nil {
		return nil, err
	}

	// Wait for database open to finish
	db, err := openRequest.Await(ctx)
	if err != nil {
		return nil, err
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return &wasmModel{db: db}, nil
}

// v3Upgrade builds the v3 schema. Any capture stores left over from an older
// version are dropped first; the settingsStore is created once and never
// dropped.
//
// This can never be changed without permanently breaking backwards
// compatibility.
func v3Upgrade(db *idb.Database, oldVersion uint) error {
	existing, err := db.ObjectStoreNames()
	if err != nil {
		return err
	}
	existingSet := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		existingSet[name] = struct{}{}
	}

	// Drop stale capture stores from previous schema generations
	for _, name := range captureStoreNames {
		if _, exists := existingSet[name]; exists {
			jww.WARN.Printf(
				"Dropping %s store from schema v%d", name, oldVersion)
			if err = db.DeleteObjectStore(name); err != nil {
				return err
			}
		}
	}

	indexOpts := idb.IndexOptions{
		Unique:     false,
		MultiEntry: false,
	}

	// Build Domain ObjectStore and Indexes
	domainStore, err := db.CreateObjectStore(domainStoreName,
		idb.ObjectStoreOptions{KeyPath: js.ValueOf(domainPkeyName)})
	if err != nil {
		return err
	}
	_, err = domainStore.CreateIndex(domainStoreTimestampIndex,
		js.ValueOf(domainStoreTimestampIndex), indexOpts)
	if err != nil {
		return err
	}

	// Build App ObjectStore and Indexes
	appStore, err := db.CreateObjectStore(appStoreName,
		idb.ObjectStoreOptions{KeyPath: js.ValueOf(pkeyName)})
	if err != nil {
		return err
	}
	_, err = appStore.CreateIndex(appStoreDomainIndex,
		js.ValueOf(appStoreDomainIndex), indexOpts)
	if err != nil {
		return err
	}
	_, err = appStore.CreateIndex(appStoreNameIndex,
		js.ValueOf(appStoreNameIndex), indexOpts)
	if err != nil {
		return err
	}
	_, err = appStore.CreateIndex(appStoreTimestampIndex,
		js.ValueOf(appStoreTimestampIndex), indexOpts)
	if err != nil {
		return err
	}

	// Build Flow ObjectStore and Indexes
	flowStore, err := db.CreateObjectStore(flowStoreName,
		idb.ObjectStoreOptions{KeyPath: js.ValueOf(pkeyName)})
	if err != nil {
		return err
	}
	_, err = flowStore.CreateIndex(flowStoreAppIndex,
		js.ValueOf(flowStoreAppIndex), indexOpts)
	if err != nil {
		return err
	}
	_, err = flowStore.CreateIndex(flowStoreNameIndex,
		js.ValueOf(flowStoreNameIndex), indexOpts)
	if err != nil {
		return err
	}
	_, err = flowStore.CreateIndex(flowStoreTimestampIndex,
		js.ValueOf(flowStoreTimestampIndex), indexOpts)
	if err != nil {
		return err
	}

	// Build Clipboard ObjectStore and Indexes
	clipboardStore, err := db.CreateObjectStore(clipboardStoreName,
		idb.ObjectStoreOptions{KeyPath: js.ValueOf(pkeyName)})
	if err != nil {
		return err
	}
	_, err = clipboardStore.CreateIndex(clipboardStoreFlowIndex,
		js.ValueOf(clipboardStoreFlowIndex), indexOpts)
	if err != nil {
		return err
	}
	_, err = clipboardStore.CreateIndex(clipboardStoreTimestampIndex,
		js.ValueOf(clipboardStoreTimestampIndex), indexOpts)
	if err != nil {
		return err
	}

	// Build Settings ObjectStore, only on first run
	if _, exists := existingSet[settingsStoreName]; !exists {
		_, err = db.CreateObjectStore(settingsStoreName,
			idb.ObjectStoreOptions{KeyPath: js.ValueOf(settingsPkeyName)})
		if err != nil {
			return err
		}
	}

	return nil
}
