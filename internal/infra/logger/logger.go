package logger

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jwalton/gchalk"
	"github.com/jwalton/go-supportscolor"
)

var _ log.Logger = (*colorLogger)(nil)

// colorLogger writes key=value lines with level colours on a terminal and
// one JSON object per line everywhere else.
type colorLogger struct {
	w         io.Writer
	debug     bool
	skipEmpty bool
	isDiscard bool
	mu        sync.Mutex
	pool      *sync.Pool
}

func NewColorLogger(w io.Writer, skipEmpty, debug bool) log.Logger {
	return &colorLogger{
		w:         w,
		debug:     debug,
		skipEmpty: skipEmpty,
		isDiscard: w == io.Discard,
		pool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

// New returns the service logger used by main and the request middleware.
func New(name string, debug bool) log.Logger {
	return With(NewColorLogger(os.Stdout, true, debug), name)
}

// With decorates base with the service name, timestamp and caller.
func With(base log.Logger, name string) log.Logger {
	return log.With(base,
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.name", name,
	)
}

func (l *colorLogger) Log(level log.Level, keyvals ...interface{}) error {
	if level == log.LevelDebug && !l.debug {
		return nil
	}
	if l.isDiscard || len(keyvals) == 0 {
		return nil
	}
	if (len(keyvals) & 1) == 1 {
		keyvals = append(keyvals, "KEYVALS UNPAIRED")
	}

	if w, ok := l.w.(*os.File); !ok || supportscolor.SupportsColor(w.Fd()).Level == gchalk.LevelNone {
		// go test output stays human readable
		if flag.Lookup("test.v") == nil {
			return l.jsonOutput(level, keyvals...)
		}
	}

	buf := l.pool.Get().(*bytes.Buffer)
	defer l.pool.Put(buf)
	defer buf.Reset()

	color := gchalk.Gray
	switch level {
	case log.LevelDebug:
		color = gchalk.Green
	case log.LevelInfo:
		color = gchalk.Blue
	case log.LevelWarn:
		color = gchalk.Yellow
	case log.LevelError, log.LevelFatal:
		color = gchalk.BgBrightRed
	}
	buf.WriteString(color(level.String()))

	for i := 0; i < len(keyvals); i += 2 {
		k := fmt.Sprintf("%s", keyvals[i])
		v := fmt.Sprintf("%v", keyvals[i+1])
		if l.skipEmpty && v == "" {
			continue
		}
		_, _ = fmt.Fprintf(buf, " %s%s%v", gchalk.Gray(k), gchalk.Gray("="), v)
	}
	buf.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.w.Write(buf.Bytes())
	return err
}

func (l *colorLogger) jsonOutput(level log.Level, keyvals ...interface{}) error {
	param := map[string]interface{}{"level": level.String()}
	for i := 0; i < len(keyvals); i += 2 {
		param[fmt.Sprintf("%v", keyvals[i])] = keyvals[i+1]
	}
	data, err := json.Marshal(&param)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.w.Write(data)
	return err
}
