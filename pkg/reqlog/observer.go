package reqlog

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/mockwire/mockwire/pkg/logging"
	"github.com/mockwire/mockwire/pkg/util"
)

// Observer holds the current logging policy and emits records for observed
// requests. The zero policy logs nothing.
type Observer struct {
	mu       sync.RWMutex
	mode     Mode
	urls     []string
	callback Callback
	log      *slog.Logger
}

// NewObserver creates an Observer with logging disabled.
func NewObserver() *Observer {
	return &Observer{
		mode: ModeNone,
		log:  logging.Nop(),
	}
}

// SetLogger sets the observer's diagnostic logger.
func (o *Observer) SetLogger(log *slog.Logger) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if log != nil {
		o.log = log
	}
}

// Configure replaces the whole logging policy atomically. An empty urls list
// means every URL is logged; entries are exact URLs or doublestar glob
// patterns (for example "https://api.example.com/**").
func (o *Observer) Configure(mode Mode, urls []string, callback Callback) {
	filter := make([]string, len(urls))
	copy(filter, urls)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.mode = mode
	o.urls = filter
	o.callback = callback
}

// Mode returns the current logging mode.
func (o *Observer) Mode() Mode {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.mode
}

// ShouldLog reports whether requests to url are logged under the current
// policy.
func (o *Observer) ShouldLog(url string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.shouldLogLocked(url)
}

func (o *Observer) shouldLogLocked(url string) bool {
	if o.mode == ModeNone {
		return false
	}
	if len(o.urls) == 0 {
		return true
	}
	for _, pattern := range o.urls {
		if pattern == url {
			return true
		}
		if ok, err := doublestar.Match(pattern, url); err == nil && ok {
			return true
		}
	}
	return false
}

// Emit builds a record for the request and hands it to the callback on a
// separate goroutine. The caller never blocks on callback execution, and a
// panicking callback is contained here. Requests the policy does not cover
// are dropped silently.
func (o *Observer) Emit(method, url string, headers http.Header, body []byte) {
	o.mu.RLock()
	if !o.shouldLogLocked(url) || o.callback == nil {
		o.mu.RUnlock()
		return
	}
	mode := o.mode
	callback := o.callback
	log := o.log
	o.mu.RUnlock()

	record := &Record{
		ID:     uuid.NewString(),
		Time:   time.Now(),
		Method: method,
		URL:    url,
	}
	if len(body) > 0 {
		record.Body = []byte(util.TruncateBody(string(body), 0))
	}
	if mode == ModeVerbose && headers != nil {
		record.Headers = headers.Clone()
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("request log callback panicked", "url", url, "panic", r)
			}
		}()
		callback(record)
	}()
}
