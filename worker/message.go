////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package worker

// Message is the outer message that contains the contents of each message sent
// to the worker. It is transmitted as JSON.
type Message struct {
	Tag      Tag    `json:"tag"`
	ID       uint64 `json:"id"`
	Response bool   `json:"response"`
	Data     []byte `json:"data"`
}
