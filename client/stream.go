// Package client reassembles a streamed chat response and keeps session
// state: the conversation, aggregate metrics, and the last error.
package client

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"coffee-chat/domain/chat"

	"github.com/sirupsen/logrus"
)

// ReadEvents decodes `data: ` framed records from r and passes each event
// to fn in arrival order. Malformed records are logged and skipped; the
// reader is drained to EOF. fn returning an error stops the loop early.
func ReadEvents(r io.Reader, fn func(chat.StreamEvent) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var event chat.StreamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			logrus.WithError(err).WithField("line", line).Warn("Skipping malformed stream record")
			continue
		}

		if err := fn(event); err != nil {
			return err
		}
	}
	return scanner.Err()
}
