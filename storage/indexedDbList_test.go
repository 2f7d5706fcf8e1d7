////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package storage

import (
	"testing"

	"gitlab.com/clipvault/clipvault-wasm/utils"
)

// Tests that three indexedDb database names stored with StoreIndexedDb are
// retrieved with GetIndexedDbList.
func TestStoreIndexedDb_GetIndexedDbList(t *testing.T) {
	utils.GetLocalStorage().RemoveItem(indexedDbListKey)
	expected := []string{"db1", "db2", "db3"}

	for _, name := range expected {
		err := StoreIndexedDb(name)
		if err != nil {
			t.Errorf("Failed to store database name %q: %+v", name, err)
		}
	}

	list, err := GetIndexedDbList()
	if err != nil {
		t.Errorf("Failed to get database list: %+v", err)
	}

	if len(list) != len(expected) {
		t.Errorf("Did not get expected list.\nexpected: %s\nreceived: %v",
			expected, list)
	}
	for _, name := range expected {
		if created, exists := list[name]; !exists {
			t.Errorf("Database %q missing from list", name)
		} else if created.IsZero() {
			t.Errorf("Database %q has no creation time", name)
		}
	}
}

// Tests that RemoveIndexedDb deletes only the given database name from the
// list.
func TestRemoveIndexedDb(t *testing.T) {
	utils.GetLocalStorage().RemoveItem(indexedDbListKey)
	for _, name := range []string{"keepMe", "removeMe"} {
		if err := StoreIndexedDb(name); err != nil {
			t.Fatalf("Failed to store database name %q: %+v", name, err)
		}
	}

	if err := RemoveIndexedDb("removeMe"); err != nil {
		t.Fatalf("Failed to remove database name: %+v", err)
	}

	list, err := GetIndexedDbList()
	if err != nil {
		t.Errorf("Failed to get database list: %+v", err)
	}

	if _, exists := list["removeMe"]; exists {
		t.Error("Removed database still in list")
	}
	if _, exists := list["keepMe"]; !exists {
		t.Error("Unrelated database removed from list")
	}
}
