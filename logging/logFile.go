////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build js && wasm

package logging

import (
	"io"

	"github.com/armon/circbuf"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

// logListeners is a list of all registered log listeners. This is used to add
// additional log listeners without overwriting previously registered ones.
var logListeners []jww.LogListener

// AddLogListener appends to the log listener list. Call this and pass the
// return into jwalterweatherman.SetLogListeners.
func AddLogListener(ll jww.LogListener) []jww.LogListener {
	logListeners = append(logListeners, ll)
	return logListeners
}

// LogFile records log entries to an in-memory circular buffer of fixed size
// so that the newest entries can be downloaded from the manager UI.
type LogFile struct {
	name      string
	threshold jww.Threshold
	b         *circbuf.Buffer
}

// NewLogFile starts logging to an in-memory log file at the specified
// threshold. Once the max file size is reached, the oldest entries are
// overwritten.
func NewLogFile(
	name string, threshold jww.Threshold, maxLogFileSize int) (*LogFile, error) {
	if threshold < jww.LevelTrace || threshold > jww.LevelFatal {
		return nil, errors.Errorf("log level is not valid: %d", threshold)
	}

	b, err := circbuf.NewBuffer(int64(maxLogFileSize))
	if err != nil {
		return nil, errors.Wrap(err, "could not create new circular buffer")
	}

	lf := &LogFile{
		name:      name,
		threshold: threshold,
		b:         b,
	}

	jww.SetLogListeners(AddLogListener(lf.Listen)...)

	jww.INFO.Printf("[LOG] Outputting log to file %s of max size %d at level %s",
		lf.name, lf.MaxSize(), lf.threshold)

	return lf, nil
}

// Write adheres to the io.Writer interface and writes log entries to the
// buffer.
func (lf *LogFile) Write(p []byte) (n int, err error) {
	return lf.b.Write(p)
}

// Listen adheres to the [jwalterweatherman.LogListener] type and returns the
// log writer when the threshold is within the set threshold limit.
func (lf *LogFile) Listen(t jww.Threshold) io.Writer {
	if t < lf.threshold {
		return nil
	}
	return lf
}

// Name returns the file name.
func (lf *LogFile) Name() string {
	return lf.name
}

// Threshold returns the log level threshold used in the file.
func (lf *LogFile) Threshold() jww.Threshold {
	return lf.threshold
}

// MaxSize returns the max size, in bytes, that the log file is allowed to be.
func (lf *LogFile) MaxSize() int {
	return int(lf.b.Size())
}

// Size returns the number of bytes written to the log file.
func (lf *LogFile) Size() int {
	return int(lf.b.TotalWritten())
}

// GetFile returns the entire log file.
func (lf *LogFile) GetFile() []byte {
	return lf.b.Bytes()
}
