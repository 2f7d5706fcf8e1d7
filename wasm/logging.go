////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package wasm

import (
	"log"
	"syscall/js"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"gitlab.com/clipvault/clipvault-wasm/logging"
	"gitlab.com/clipvault/clipvault-wasm/utils"
)

// LogLevel sets level of logging. All logs at the set level and below will be
// displayed (e.g., when log level is ERROR, only ERROR, CRITICAL, and FATAL
// messages will be printed).
//
// Log level options:
//
//	TRACE    - 0
//	DEBUG    - 1
//	INFO     - 2
//	WARN     - 3
//	ERROR    - 4
//	CRITICAL - 5
//	FATAL    - 6
//
// The default log level without updates is INFO.
//
// Parameters:
//   - args[0] - Log level (int).
//
// Returns:
//   - Throws RangeError if the log level is outside the valid range.
func LogLevel(_ js.Value, args []js.Value) any {
	threshold := jww.Threshold(args[0].Int())
	if threshold < jww.LevelTrace || threshold > jww.LevelFatal {
		err := errors.Errorf("log level is not valid: log level: %d", threshold)
		utils.Throw(utils.RangeError, err)
		return nil
	}

	jww.SetLogThreshold(threshold)
	jww.SetFlags(log.LstdFlags | log.Lmicroseconds)

	ll := logging.NewJsConsoleLogListener(threshold)
	jww.SetLogListeners(logging.AddLogListener(ll.Listen)...)
	jww.SetStdoutThreshold(jww.LevelFatal + 1)

	jww.INFO.Printf("Log level set to: %s", threshold)
	return nil
}

// LogToFile enables logging to a file that can be downloaded.
//
// Parameters:
//   - args[0] - Log level (int).
//   - args[1] - Log file name (string).
//   - args[2] - Max log file size, in bytes (int).
//
// Returns:
//   - A Javascript representation of the [logging.LogFile] object, which
//     allows accessing the contents of the log file and other metadata.
//   - Throws TypeError if the log level is invalid or the log file cannot be
//     created.
func LogToFile(_ js.Value, args []js.Value) any {
	lf, err := logging.NewLogFile(
		args[1].String(), jww.Threshold(args[0].Int()), args[2].Int())
	if err != nil {
		utils.Throw(utils.TypeError, err)
		return nil
	}

	return newLogFileJS(lf)
}

// newLogFileJS creates a new Javascript compatible object (map[string]any)
// that matches the [logging.LogFile] structure.
func newLogFileJS(lf *logging.LogFile) map[string]any {
	return map[string]any{
		"Name": js.FuncOf(func(js.Value, []js.Value) any {
			return lf.Name()
		}),
		"Threshold": js.FuncOf(func(js.Value, []js.Value) any {
			return lf.Threshold().String()
		}),
		"GetFile": js.FuncOf(func(js.Value, []js.Value) any {
			return string(lf.GetFile())
		}),
		"MaxSize": js.FuncOf(func(js.Value, []js.Value) any {
			return lf.MaxSize()
		}),
		"Size": js.FuncOf(func(js.Value, []js.Value) any {
			return lf.Size()
		}),
	}
}
