package stt

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errorKind partitions stream failures into restart policy classes. Transient
// kinds are distinct so that repeated failures of the same class can be
// counted against the consecutive-failure limit.
type errorKind int

const (
	errKindBenign errorKind = iota
	errKindFatal
	errKindUnavailable
	errKindDeadline
	errKindConnReset
	errKindTimeout
)

func (k errorKind) transient() bool {
	switch k {
	case errKindUnavailable, errKindDeadline, errKindConnReset, errKindTimeout:
		return true
	default:
		return false
	}
}

func (k errorKind) String() string {
	switch k {
	case errKindBenign:
		return "benign"
	case errKindUnavailable:
		return "unavailable"
	case errKindDeadline:
		return "deadline_exceeded"
	case errKindConnReset:
		return "connection_reset"
	case errKindTimeout:
		return "request_timeout"
	default:
		return "fatal"
	}
}

func classifyStreamError(err error) errorKind {
	if err == nil {
		return errKindBenign
	}
	if errors.Is(err, context.Canceled) {
		return errKindBenign
	}

	switch status.Code(err) {
	case codes.Canceled:
		return errKindBenign
	case codes.Unavailable:
		return errKindUnavailable
	case codes.DeadlineExceeded:
		return errKindDeadline
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "use of closed network connection"):
		return errKindConnReset
	case strings.Contains(msg, "deadline exceeded"):
		return errKindDeadline
	case strings.Contains(msg, "audio timeout"),
		strings.Contains(msg, "request timeout"),
		strings.Contains(msg, "exceeded"):
		// Backend-specific signal for a stream that outlived its window.
		return errKindTimeout
	case strings.Contains(msg, "unavailable"):
		return errKindUnavailable
	default:
		return errKindFatal
	}
}
