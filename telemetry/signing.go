package telemetry

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"errors"
)

// ErrAuth is returned when a signed frame fails verification.
var ErrAuth = errors.New("telemetry: signature verification failed")

// domainTag binds signatures to this protocol so a valid signature
// produced elsewhere can't be replayed here, the same purpose
// federation/signing.go's domainTag serves for federation messages.
const domainTag = "ROBOT-RUMBLE-TELEMETRY-V1"

// SignedFrame wraps a snapshot with an HMAC-SHA256 tag over its
// canonical JSON bytes, for deployments that want to authenticate
// telemetry consumers against tampering or spoofed dashboards.
type SignedFrame struct {
	Snapshot Snapshot `json:"snapshot"`
	MAC      []byte   `json:"mac"`
}

func canonicalBytes(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

func addDomain(b []byte) []byte {
	out := make([]byte, 0, len(domainTag)+1+len(b))
	out = append(out, domainTag...)
	out = append(out, 0)
	return append(out, b...)
}

// Sign produces a SignedFrame for snap under key. Adapted from
// federation/signing.go's HMACSign, with the proto.Message canonical-bytes
// step replaced by plain JSON marshaling since this domain has no
// generated protobuf types.
func Sign(key []byte, snap Snapshot) (SignedFrame, error) {
	b, err := canonicalBytes(snap)
	if err != nil {
		return SignedFrame{}, err
	}
	h := hmac.New(sha256.New, key)
	h.Write(addDomain(b))
	return SignedFrame{Snapshot: snap, MAC: h.Sum(nil)}, nil
}

// Verify reports whether frame's MAC matches key.
func Verify(key []byte, frame SignedFrame) error {
	b, err := canonicalBytes(frame.Snapshot)
	if err != nil {
		return err
	}
	h := hmac.New(sha256.New, key)
	h.Write(addDomain(b))
	if !hmac.Equal(frame.MAC, h.Sum(nil)) {
		return ErrAuth
	}
	return nil
}

// Signer optionally authenticates a Hub's outgoing snapshots. A nil
// *Signer (a Hub's default) disables signing entirely; spec.md defines
// no authentication requirement for telemetry, so this is additive.
type Signer struct {
	Key []byte
}

// signatureFrame is the companion frame a session sends immediately
// after a snapshot frame when its Hub carries a Signer. WebSocket
// control opcodes are reserved for ping/pong/close (RFC 6455), so the
// signature travels as its own small text frame rather than a true
// control frame.
type signatureFrame struct {
	Kind string `json:"kind"`
	MAC  []byte `json:"mac"`
}

// companionFrame produces the marshaled signatureFrame for snap, or
// nil if s is nil (signing disabled).
func (s *Signer) companionFrame(snap Snapshot) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	frame, err := Sign(s.Key, snap)
	if err != nil {
		return nil, err
	}
	return json.Marshal(signatureFrame{Kind: "x-snapshot-signature", MAC: frame.MAC})
}
