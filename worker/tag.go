////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package worker

// Tag describes how a message sent to or from the worker should be handled.
type Tag string

// readyTag is the tag the worker sends to the main thread once it is ready to
// start receiving messages. The main thread waits for this signal before
// initiating communication.
const readyTag Tag = "<Ready>"

// initID is the ID for the first message sent for each tag.
const initID = uint64(0)
