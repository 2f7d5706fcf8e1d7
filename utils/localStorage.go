////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package utils

import (
	"encoding/base64"
	"os"
	"syscall/js"
)

// LocalStorage contains the js.Value representation of localStorage.
type LocalStorage struct {
	v js.Value
}

// jsStorage is the global that stores Javascript as window.localStorage.
//
// Doc: https://developer.mozilla.org/en-US/docs/Web/API/Window/localStorage
var jsStorage = LocalStorage{js.Global().Get("localStorage")}

// GetLocalStorage returns Javascript's local storage.
func GetLocalStorage() *LocalStorage {
	return &jsStorage
}

// GetItem returns a key's value from the local storage given its name.
// Returns os.ErrNotExist if the key does not exist. Underneath, it calls
// localStorage.getItem().
//
// Doc: https://developer.mozilla.org/en-US/docs/Web/API/Storage/getItem
func (s *LocalStorage) GetItem(keyName string) ([]byte, error) {
	keyValue := s.v.Call("getItem", keyName)
	if keyValue.IsNull() {
		return nil, os.ErrNotExist
	}

	decodedKeyValue, err := base64.StdEncoding.DecodeString(keyValue.String())
	if err != nil {
		return nil, err
	}

	return decodedKeyValue, nil
}

// SetItem adds a key's value to local storage given its name. Underneath, it
// calls localStorage.setItem().
//
// Doc: https://developer.mozilla.org/en-US/docs/Web/API/Storage/setItem
func (s *LocalStorage) SetItem(keyName string, keyValue []byte) {
	encodedKeyValue := base64.StdEncoding.EncodeToString(keyValue)
	s.v.Call("setItem", keyName, encodedKeyValue)
}

// RemoveItem removes a key's value from local storage given its name. If
// there is no item with the given key, this function does nothing.
// Underneath, it calls localStorage.removeItem().
//
// Doc: https://developer.mozilla.org/en-US/docs/Web/API/Storage/removeItem
func (s *LocalStorage) RemoveItem(keyName string) {
	s.v.Call("removeItem", keyName)
}

// Clear clears all the keys in storage. Underneath, it calls
// localStorage.clear().
//
// Doc: https://developer.mozilla.org/en-US/docs/Web/API/Storage/clear
func (s *LocalStorage) Clear() {
	s.v.Call("clear")
}
