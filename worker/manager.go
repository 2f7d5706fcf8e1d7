////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package worker

import (
	"syscall/js"
	"time"

	"github.com/hack-pad/safejs"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

// readyTimeout is the time to wait to receive the ready signal from the
// worker before timing out.
const readyTimeout = 30 * time.Second

// Manager spawns a dedicated Javascript Worker and manages the sending and
// receiving of messages to and from it.
//
// Doc: https://developer.mozilla.org/en-US/docs/Web/API/Worker
type Manager struct {
	*MessageManager

	// worker is the underlying Javascript Worker object.
	worker js.Value
}

// NewManager spawns a new Javascript Worker from the given Javascript file
// and returns a Manager for it. This function blocks until the worker signals
// that it is ready to start receiving messages.
func NewManager(aURL, name string, messageLogging bool) (*Manager, error) {
	// Create new worker options with the given name
	opts := js.Global().Get("Object").New()
	opts.Set("name", name)

	workerJS, err := newWorkerJS(aURL, opts)
	if err != nil {
		return nil, err
	}

	p := DefaultParams()
	p.MessageLogging = messageLogging
	mm, err := NewMessageManager(safejs.Safe(workerJS), name, p)
	if err != nil {
		workerJS.Call("terminate")
		return nil, err
	}

	m := &Manager{
		MessageManager: mm,
		worker:         workerJS,
	}

	// Wait for the worker thread to signal that it is ready before sending it
	// any messages
	readyChan := make(chan struct{})
	m.RegisterCallback(readyTag, func([]byte, func([]byte)) {
		select {
		case readyChan <- struct{}{}:
		default:
		}
	})

	select {
	case <-readyChan:
		jww.INFO.Printf("[WW] [%s] Worker ready.", name)
	case <-time.After(readyTimeout):
		m.Terminate()
		return nil, errors.Errorf("[WW] [%s] timed out after %s waiting for "+
			"worker to be ready", name, readyTimeout)
	}

	return m, nil
}

// newWorkerJS creates a new Javascript Worker object. Returns an error if the
// browser does not support workers or if the worker fails to load.
func newWorkerJS(aURL string, opts js.Value) (worker js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = errors.Errorf(
					"failed to create new worker from %q: %s", aURL, jsErr)
			} else {
				err = errors.Errorf(
					"failed to create new worker from %q: %+v", aURL, r)
			}
		}
	}()

	workerConstructor := js.Global().Get("Worker")
	if workerConstructor.IsUndefined() {
		return js.Undefined(),
			errors.New("workers are not supported in this browser context")
	}

	return workerConstructor.New(aURL, opts), nil
}

// SendMessage sends the data to the worker with the given tag and waits for a
// response.
func (m *Manager) SendMessage(tag Tag, data []byte) (response []byte, err error) {
	return m.Send(tag, data)
}

// Terminate stops the message reception thread and immediately terminates the
// worker, without giving it an opportunity to finish its operations.
//
// Doc: https://developer.mozilla.org/en-US/docs/Web/API/Worker/terminate
func (m *Manager) Terminate() {
	m.Stop()
	m.worker.Call("terminate")
}
