////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	jww "github.com/spf13/jwalterweatherman"

	"gitlab.com/clipvault/clipvault-wasm/logging"
	"gitlab.com/clipvault/clipvault-wasm/wasm"
	"gitlab.com/clipvault/clipvault-wasm/worker"
)

// SEMVER is the current semantic version of the ClipVault capture web worker.
const SEMVER = "0.3.0"

func init() {
	// Set up Javascript console listener set at level INFO
	ll := logging.NewJsConsoleLogListener(jww.LevelInfo)
	jww.SetLogListeners(logging.AddLogListener(ll.Listen)...)
	jww.SetStdoutThreshold(jww.LevelFatal + 1)
	jww.INFO.Printf("ClipVault capture web worker version: v%s", SEMVER)
}

func main() {
	jww.INFO.Print("[WW] Starting ClipVault WebAssembly Capture Database Worker.")

	js.Global().Set("LogLevel", js.FuncOf(wasm.LogLevel))

	m := &manager{wtm: worker.NewThreadManager("CaptureIndexedDbWorker", true)}
	m.registerCallbacks()
	m.wtm.SignalReady()
	<-make(chan bool)
	fmt.Println("[WW] Closing ClipVault WebAssembly Capture Database Worker.")
}
