package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Pavantej-HH/AI-Interview/internal/domain"
)

const (
	writeTimeout  = 10 * time.Second
	sendQueueSize = 64
)

// client owns one websocket connection. All writes go through a single
// writer goroutine fed by the send queue; the event sink methods only
// enqueue, so the pipeline never blocks on a slow client.
type client struct {
	conn   *websocket.Conn
	logger *slog.Logger

	send      chan any
	closeOnce sync.Once
	closed    chan struct{}
}

func newClient(conn *websocket.Conn, logger *slog.Logger) *client {
	return &client{
		conn:   conn,
		logger: logger,
		send:   make(chan any, sendQueueSize),
		closed: make(chan struct{}),
	}
}

func (c *client) writePump() {
	for {
		select {
		case <-c.closed:
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(frame); err != nil {
				c.logger.Debug("websocket write failed", "error", err)
				c.close()
				return
			}
		}
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}

func (c *client) enqueue(frame any) {
	select {
	case c.send <- frame:
	case <-c.closed:
	default:
		c.logger.Warn("send queue full, dropping frame")
	}
}

// The client is the session's event sink: pipeline events become frames.

func (c *client) Info(message string) {
	c.enqueue(infoFrame{Type: frameInfo, Message: message})
}

func (c *client) Error(code domain.ErrorCode, message string) {
	c.enqueue(errorFrame{Type: frameError, Code: code, Message: message})
}

func (c *client) InterimTranscript(text string) {
	c.enqueue(textFrame{Type: frameInterimTranscript, Text: text})
}

func (c *client) FinalTranscriptPart(text string) {
	c.enqueue(textFrame{Type: frameFinalTranscriptPart, Text: text})
}

func (c *client) UserTranscript(text string) {
	c.enqueue(textFrame{Type: frameUserTranscript, Text: text})
}

func (c *client) AIMessage(msg domain.AIMessage) {
	c.enqueue(aiMessageFrame{Type: frameAIMessage, AIMessage: msg})
}

func (c *client) InterviewComplete(report domain.Report) {
	c.enqueue(reportFrame{Type: frameInterviewComplete, Report: report})
}
