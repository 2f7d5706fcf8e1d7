////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package storage

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"gitlab.com/clipvault/clipvault-wasm/utils"
)

// indexedDbListKey is the key in local storage that the list of capture
// databases is stored under.
const indexedDbListKey = "clipVaultIndexedDbList"

// GetIndexedDbList returns the list of all capture databases that have been
// created, keyed on the database name.
func GetIndexedDbList() (map[string]time.Time, error) {
	list := make(map[string]time.Time)
	listBytes, err := utils.GetLocalStorage().GetItem(indexedDbListKey)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else {
		err = json.Unmarshal(listBytes, &list)
		if err != nil {
			return nil, err
		}
	}

	return list, nil
}

// StoreIndexedDb saves the database name to the list of capture databases in
// local storage with the current time as the creation timestamp.
func StoreIndexedDb(databaseName string) error {
	list, err := GetIndexedDbList()
	if err != nil {
		return err
	}

	list[databaseName] = time.Now()

	listBytes, err := json.Marshal(list)
	if err != nil {
		return err
	}

	utils.GetLocalStorage().SetItem(indexedDbListKey, listBytes)

	return nil
}

// RemoveIndexedDb removes the database name from the list of capture
// databases in local storage.
func RemoveIndexedDb(databaseName string) error {
	list, err := GetIndexedDbList()
	if err != nil {
		return err
	}

	delete(list, databaseName)

	listBytes, err := json.Marshal(list)
	if err != nil {
		return err
	}

	utils.GetLocalStorage().SetItem(indexedDbListKey, listBytes)

	return nil
}
