////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package utils

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

// Tests that Await returns the resolution value of a resolved promise and the
// rejection value of a rejected one.
func TestAwait(t *testing.T) {
	resolved := Promise.Call("resolve", "ok")
	result, awaitErr := Await(resolved)
	if awaitErr != nil {
		t.Fatalf("Unexpected rejection: %v", awaitErr)
	}
	if len(result) != 1 || result[0].String() != "ok" {
		t.Errorf("Unexpected resolution value: %v", result)
	}

	rejected := Promise.Call("reject", "bad")
	result, awaitErr = Await(rejected)
	if result != nil {
		t.Errorf("Expected no result from a rejected promise, got %v", result)
	}
	if len(awaitErr) != 1 || awaitErr[0].String() != "bad" {
		t.Errorf("Unexpected rejection value: %v", awaitErr)
	}
}

// Tests that JsError produces a Javascript Error carrying the Go error's
// message.
func TestJsError(t *testing.T) {
	err := errors.New("test error")
	jsErr := JsError(err)
	if msg := jsErr.Get("message").String(); msg != "test error" {
		t.Errorf("Unexpected error message: %q", msg)
	}
}

// Tests that JsTrace includes the stack trace in the Error message.
func TestJsTrace(t *testing.T) {
	err := errors.New("test error")
	jsErr := JsTrace(err)
	msg := jsErr.Get("message").String()
	if !strings.Contains(msg, "test error") {
		t.Errorf("Error message missing cause: %q", msg)
	}
	if !strings.Contains(msg, "TestJsTrace") {
		t.Errorf("Error message missing stack trace: %q", msg)
	}
}
