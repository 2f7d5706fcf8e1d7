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
	"os"
	"os/signal"
	"syscall"
	"syscall/js"

	jww "github.com/spf13/jwalterweatherman"

	"gitlab.com/clipvault/clipvault-wasm/logging"
	"gitlab.com/clipvault/clipvault-wasm/utils"
	"gitlab.com/clipvault/clipvault-wasm/wasm"
)

func init() {
	// Set up Javascript console listener set at level INFO
	ll := logging.NewJsConsoleLogListener(jww.LevelInfo)
	jww.SetLogListeners(logging.AddLogListener(ll.Listen)...)
	jww.SetStdoutThreshold(jww.LevelFatal + 1)
}

func main() {
	fmt.Println("ClipVault Web Assembly")

	err := utils.CheckAndStoreVersions()
	if err != nil {
		jww.FATAL.Panicf("Failed to check versions: %+v", err)
	}

	// wasm/capture.go
	js.Global().Set("ClipVault_NewDatabase", js.FuncOf(wasm.NewDatabase))

	// wasm/logging.go
	js.Global().Set("LogLevel", js.FuncOf(wasm.LogLevel))
	js.Global().Set("LogToFile", js.FuncOf(wasm.LogToFile))

	// wasm/version.go
	js.Global().Set("GetVersion", js.FuncOf(wasm.GetVersion))

	// Wait until the user terminates the program
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	os.Exit(0)
}
