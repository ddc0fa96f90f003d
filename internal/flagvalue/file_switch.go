package flagvalue

import (
	"flag"
	"io"
	"os"

	"braces.dev/errtrace"
	"go.uber.org/zap/zapcore"
)

// FileSwitch is a flag that accepts both "-x" and "-x=path".
// It selects where a log stream is written:
// nowhere, a fallback stream, or a file.
type FileSwitch string

var _ flag.Getter = (*FileSwitch)(nil)

// Get returns the path stored in the switch
// or '-' if the flag was passed without a value.
func (fs *FileSwitch) Get() any { return string(*fs) }

// String returns the path stored in the switch
// or '-' if the flag was passed without a value.
func (fs *FileSwitch) String() string {
	return string(*fs)
}

// IsBoolFlag marks this as a flag
// that doesn't require a value.
func (*FileSwitch) IsBoolFlag() bool {
	return true
}

// Set receives the value for this flag.
func (fs *FileSwitch) Set(v string) error {
	switch v {
	case "true":
		v = "-"
	case "false":
		v = ""
	}
	*fs = FileSwitch(v)
	return nil
}

// Bool reports whether this flag was set with any value.
func (fs *FileSwitch) Bool() bool {
	return len(*fs) > 0
}

// Sink opens the destination selected by this flag
// and returns it with a function to close it.
//
//   - the flag wasn't passed in: output is discarded
//   - the flag was passed without a value: fallback is used
//   - the flag was passed with a value: that file is created
func (fs *FileSwitch) Sink(fallback io.Writer) (ws zapcore.WriteSyncer, close func() error, err error) {
	switch *fs {
	case "":
		return zapcore.AddSync(io.Discard), nopClose, nil
	case "-":
		return zapcore.AddSync(fallback), nopClose, nil
	default:
		f, err := os.Create(string(*fs))
		if err != nil {
			return nil, nil, errtrace.Wrap(err)
		}
		return f, f.Close, nil
	}
}

func nopClose() error { return nil }
