////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package utils

import (
	"os"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

// SEMVER is the current semantic version of the ClipVault WASM module.
const SEMVER = "0.3.0"

// semverKey is the local storage key the last-run version is stored under.
const semverKey = "clipVaultWasmSemanticVersion"

// CheckAndStoreVersions checks that the stored WASM module version matches
// the current version and, if not, logs the upgrade and stores the current
// version. On first load, the current version is simply stored.
func CheckAndStoreVersions() error {
	return checkAndStoreVersions(SEMVER, GetLocalStorage())
}

func checkAndStoreVersions(currentWasmVer string, ls *LocalStorage) error {
	storedWasmVer, err := initOrLoadStoredSemver(semverKey, currentWasmVer, ls)
	if err != nil {
		return err
	}

	if storedWasmVer != currentWasmVer {
		jww.INFO.Printf("ClipVault WASM out of date; upgrading version: "+
			"v%s -> v%s", storedWasmVer, currentWasmVer)
	} else {
		jww.INFO.Printf("ClipVault WASM version is current: v%s", storedWasmVer)
	}

	ls.SetItem(semverKey, []byte(currentWasmVer))

	return nil
}

// initOrLoadStoredSemver returns the semantic version stored at the key in
// local storage. If no version is stored, then the current version is stored
// and returned.
func initOrLoadStoredSemver(
	key, currentVersion string, ls *LocalStorage) (string, error) {
	storedVersion, err := ls.GetItem(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Save the current version if this is the first run
			jww.INFO.Printf("Initialising %s to v%s", key, currentVersion)
			ls.SetItem(key, []byte(currentVersion))
			return currentVersion, nil
		}

		// If the item exists, but cannot be loaded, return an error
		return "", errors.Errorf(
			"could not load %s from storage: %+v", key, err)
	}

	return string(storedVersion), nil
}
