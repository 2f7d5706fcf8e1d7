////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package wasm

import (
	"syscall/js"

	"gitlab.com/clipvault/clipvault-wasm/utils"
)

// GetVersion returns the current semantic version of the ClipVault WASM
// module.
//
// Returns:
//   - Version (string).
func GetVersion(js.Value, []js.Value) any {
	return utils.SEMVER
}
