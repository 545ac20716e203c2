package domain

import "bytes"

// Frame is one decoded KNXnet/IP message. It is immutable: constructors copy
// the payload and Payload returns a copy.
type Frame struct {
	serviceType ServiceType
	status      StatusCode
	hasStatus   bool
	payload     []byte
}

// NewFrame builds a frame without a status code (requests, indications).
func NewFrame(st ServiceType, payload []byte) Frame {
	return Frame{serviceType: st, payload: bytes.Clone(payload)}
}

// NewResponseFrame builds a frame that carries a status code.
func NewResponseFrame(st ServiceType, status StatusCode, payload []byte) Frame {
	return Frame{serviceType: st, status: status, hasStatus: true, payload: bytes.Clone(payload)}
}

func (f Frame) ServiceType() ServiceType { return f.serviceType }

// Status returns the embedded status code, if the frame has one.
func (f Frame) Status() (StatusCode, bool) { return f.status, f.hasStatus }

// Payload returns a copy of the body bytes that follow the header.
func (f Frame) Payload() []byte { return bytes.Clone(f.payload) }

// PayloadLen avoids the copy when only the size matters.
func (f Frame) PayloadLen() int { return len(f.payload) }
