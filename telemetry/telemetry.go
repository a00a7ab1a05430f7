// Package telemetry provides opt-in telemetry collection for sqlstash.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"sync"
	"time"
)

// Event is one telemetry record: a CLI command run or an error.
type Event struct {
	EventType    string         `json:"event_type"`
	Command      string         `json:"command,omitempty"`
	Provider     string         `json:"provider,omitempty"`
	Duration     *time.Duration `json:"duration,omitempty"`
	Error        string         `json:"error,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
	Version      string         `json:"version"`
	OS           string         `json:"os"`
	Architecture string         `json:"architecture"`
}

// Collector batches events and flushes them in the background.
type Collector struct {
	enabled       bool
	endpoint      string
	events        []Event
	mu            sync.Mutex
	httpClient    *http.Client
	version       string
	batchSize     int
	flushInterval time.Duration
	stopChan      chan struct{}
	wg            sync.WaitGroup
}

var (
	globalCollector *Collector
	once            sync.Once
)

// Init initializes the global collector. Collection stays off unless
// enabled here and not disabled through the environment.
func Init(version string, enabled bool) {
	once.Do(func() {
		globalCollector = &Collector{
			enabled:       enabled && !isDisabled(),
			endpoint:      endpoint(),
			events:        make([]Event, 0, 100),
			httpClient:    &http.Client{Timeout: 5 * time.Second},
			version:       version,
			batchSize:     10,
			flushInterval: 30 * time.Second,
			stopChan:      make(chan struct{}),
		}

		if globalCollector.enabled {
			globalCollector.startBackgroundFlush()
		}
	})
}

// RecordCommand records a CLI command execution.
func RecordCommand(command string, provider string, duration time.Duration, err error) {
	if globalCollector == nil || !globalCollector.enabled {
		return
	}

	event := Event{
		EventType:    "command",
		Command:      command,
		Provider:     provider,
		Duration:     &duration,
		Timestamp:    time.Now(),
		Version:      globalCollector.version,
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}
	if err != nil {
		event.Error = err.Error()
	}

	globalCollector.record(event)
}

// RecordError records an error event with optional metadata.
func RecordError(errorType string, err error, metadata map[string]any) {
	if globalCollector == nil || !globalCollector.enabled {
		return
	}

	if metadata == nil {
		metadata = make(map[string]any)
	}
	metadata["error_type"] = errorType

	globalCollector.record(Event{
		EventType:    "error",
		Error:        err.Error(),
		Metadata:     metadata,
		Timestamp:    time.Now(),
		Version:      globalCollector.version,
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	})
}

func (c *Collector) record(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, event)
	if len(c.events) >= c.batchSize {
		go c.flush()
	}
}

func (c *Collector) flush() {
	c.mu.Lock()
	if len(c.events) == 0 {
		c.mu.Unlock()
		return
	}
	events := make([]Event, len(c.events))
	copy(events, c.events)
	c.events = c.events[:0]
	c.mu.Unlock()

	go c.send(events)
}

func (c *Collector) send(events []Event) {
	if len(events) == 0 {
		return
	}

	payload, err := json.Marshal(map[string]any{"events": events})
	if err != nil {
		// Telemetry must never break the application.
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("sqlstash/%s", c.version))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
}

func (c *Collector) startBackgroundFlush() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.flushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.flush()
			case <-c.stopChan:
				c.flush()
				return
			}
		}
	}()
}

// Shutdown stops the collector and flushes remaining events.
func Shutdown() {
	if globalCollector == nil {
		return
	}
	close(globalCollector.stopChan)
	globalCollector.wg.Wait()
	globalCollector.flush()
}

// IsEnabled reports whether collection is active.
func IsEnabled() bool {
	return globalCollector != nil && globalCollector.enabled
}

func isDisabled() bool {
	if v := os.Getenv("SQLSTASH_TELEMETRY_DISABLED"); v == "1" || v == "true" {
		return true
	}
	for _, arg := range os.Args {
		if arg == "--no-telemetry" {
			return true
		}
	}
	return false
}

func endpoint() string {
	if ep := os.Getenv("SQLSTASH_TELEMETRY_ENDPOINT"); ep != "" {
		return ep
	}
	return "https://telemetry.sqlstash.dev/events"
}
