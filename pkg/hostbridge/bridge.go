// Package hostbridge is the C ABI surface the host game runtime loads. The
// exported functions live in the cgo files; this file holds the routing and
// response formatting they share.
package hostbridge

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/seatwise/extension/internal/dispatcher"
)

// configStruct is the central configuration used by this library
type configStruct struct {
	mu sync.RWMutex

	// version is the value returned when the host first loads the extension
	version string

	// dispatcher handles event routing
	dispatcher *dispatcher.Dispatcher

	// caller is the host native invoker, set once the host registers it
	caller Caller
}

// Config defines how calls to this extension will be handled
var Config = &configStruct{version: "No version set"}

// SetVersion sets the version string returned to the host on load
func SetVersion(version string) {
	Config.mu.Lock()
	defer Config.mu.Unlock()
	Config.version = version
}

// Version returns the configured version string
func Version() string {
	Config.mu.RLock()
	defer Config.mu.RUnlock()
	return Config.version
}

// SetDispatcher sets the event dispatcher for handling commands
func SetDispatcher(d *dispatcher.Dispatcher) {
	Config.mu.Lock()
	defer Config.mu.Unlock()
	Config.dispatcher = d
}

// GetDispatcher returns the configured dispatcher, or nil if not set
func GetDispatcher() *dispatcher.Dispatcher {
	Config.mu.RLock()
	defer Config.mu.RUnlock()
	return Config.dispatcher
}

// SetCaller installs the host native invoker.
func SetCaller(c Caller) {
	Config.mu.Lock()
	defer Config.mu.Unlock()
	Config.caller = c
}

// Call forwards a native call to the registered invoker. It is the Caller
// handed to RemoteNatives, so natives can be built before the host registers.
func Call(name string, args []byte) ([]byte, error) {
	Config.mu.RLock()
	c := Config.caller
	Config.mu.RUnlock()
	if c == nil {
		return nil, ErrNoInvoker
	}
	return c(name, args)
}

// HandleCommand routes a plain command string. Arguments follow the command
// name separated by "|", e.g. ":KEYDOWN:|70".
func HandleCommand(input string) string {
	if input == ":TIMESTAMP:" {
		return getTimestamp()
	}
	parts := strings.Split(input, "|")
	return dispatch(parts[0], parts[1:])
}

// HandleArgs routes a command called with an argument array.
func HandleArgs(command string, args []string) string {
	return dispatch(command, args)
}

func dispatch(command string, args []string) string {
	d := GetDispatcher()
	if d == nil || !d.HasHandler(command) {
		return formatDispatchResponse(command, nil, fmt.Errorf("no handler registered"))
	}

	result, err := d.Dispatch(dispatcher.Event{
		Command:   command,
		Args:      args,
		Timestamp: time.Now(),
	})
	return formatDispatchResponse(command, result, err)
}

// formatDispatchResponse formats the dispatcher result for the host as a JSON
// array: ["ok"], ["ok", <value>] or ["error", "<message>"].
func formatDispatchResponse(_ string, result any, err error) string {
	if err != nil {
		return errorResponse(err)
	}
	if result == nil {
		return `["ok"]`
	}
	data, jerr := json.Marshal(result)
	if jerr != nil {
		return errorResponse(jerr)
	}
	return fmt.Sprintf(`["ok", %s]`, data)
}

func errorResponse(err error) string {
	msg, _ := json.Marshal(err.Error())
	return fmt.Sprintf(`["error", %s]`, msg)
}

func getTimestamp() string {
	return fmt.Sprintf("%d", time.Now().UTC().UnixNano())
}
