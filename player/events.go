package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/playtrail/playtrail/log"
)

// observed lists the properties watched on the event connection.
var observed = []string{
	"pause",
	"eof-reached",
	"paused-for-cache",
}

// eventListener keeps one connection open to mpv. Property observers are
// bound to the connection that registered them, so they are registered here
// rather than through sendCommand.
type eventListener struct {
	socketPath string
	conn       net.Conn
	callback   func(name string, data any)
	mu         sync.Mutex
	listening  bool
}

func newEventListener(socketPath string, callback func(name string, data any)) *eventListener {
	return &eventListener{
		socketPath: socketPath,
		callback:   callback,
	}
}

func (el *eventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		payload, err := json.Marshal(ipcCommand{Command: []any{"observe_property", i + 1, name}})
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}

		if _, err := conn.Write(append(payload, '\n')); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true

	go el.readLoop(conn)

	log.Debugf("mpv event listener started on %s", el.socketPath)
	return nil
}

func (el *eventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	_ = el.conn.Close()
	el.listening = false
}

func (el *eventListener) readLoop(conn net.Conn) {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			el.processEvent(line)
		}

		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Warnf("event listener read error: %v", err)
			}
			return
		}
	}
}

// processEvent dispatches a single line. Command replies carry no event name and are dropped.
func (el *eventListener) processEvent(line []byte) {
	var msg ipcMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		return
	}

	switch msg.Event {
	case "":
		return
	case "property-change":
		if msg.Name != "" {
			el.callback(msg.Name, msg.Data)
		}
	default:
		el.callback(msg.Event, nil)
	}
}
