// Package auth implements the owner-signature verification scheme
// mutating pipeline endpoints require: a request signs
// "{resourceId}:{timestamp}" and presents the signature alongside its
// claimed owner address.
//
// No secp256k1/Keccak ("Ethereum-style") signature library is available
// here, so addresses are the hex-encoded uncompressed P-256 public key
// itself and signatures are raw ECDSA(r, s) over a SHA-256 digest of the
// signed message — see DESIGN.md for the substitution rationale.
package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"time"
)

// ErrMissingHeaders means one or more of the three owner-auth headers
// were absent from the request.
var ErrMissingHeaders = errors.New("auth: missing owner auth headers")

// ErrTimestampOutOfWindow means X-Owner-Timestamp fell outside the ±5
// minute acceptance window.
var ErrTimestampOutOfWindow = errors.New("auth: timestamp outside acceptance window")

// ErrInvalidSignature means the signature failed to verify against the
// claimed owner address.
var ErrInvalidSignature = errors.New("auth: signature verification failed")

// ErrMalformedAddress means X-Owner-Address did not decode to a valid
// P-256 public key.
var ErrMalformedAddress = errors.New("auth: malformed owner address")

// Window is the acceptance window around now() for X-Owner-Timestamp.
const Window = 5 * time.Minute

// OwnerClaim is the parsed, not-yet-verified content of the three
// owner-auth headers.
type OwnerClaim struct {
	Address     string
	SignatureHex string
	TimestampMS int64
}

// ParseHeaders extracts and validates the presence/format of the three
// owner-auth headers, without yet verifying the signature. A missing
// header or a timestamp outside the window both yield errors the caller
// should map to 401 UNAUTHORIZED.
func ParseHeaders(h http.Header) (OwnerClaim, error) {
	address := h.Get("X-Owner-Address")
	signature := h.Get("X-Owner-Signature")
	tsRaw := h.Get("X-Owner-Timestamp")
	if address == "" || signature == "" || tsRaw == "" {
		return OwnerClaim{}, ErrMissingHeaders
	}

	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return OwnerClaim{}, fmt.Errorf("%w: X-Owner-Timestamp not an integer", ErrMissingHeaders)
	}

	now := time.Now().UnixMilli()
	delta := now - ts
	if delta < 0 {
		delta = -delta
	}
	if time.Duration(delta)*time.Millisecond > Window {
		return OwnerClaim{}, ErrTimestampOutOfWindow
	}

	return OwnerClaim{Address: address, SignatureHex: signature, TimestampMS: ts}, nil
}

// SignedMessage builds the canonical message a client signs to act on
// resourceId at timestampMS.
func SignedMessage(resourceID string, timestampMS int64) string {
	return fmt.Sprintf("%s:%d", resourceID, timestampMS)
}

// VerifySignature checks claim.SignatureHex against message, under the
// public key encoded by claim.Address.
func VerifySignature(claim OwnerClaim, message string) error {
	pub, err := decodeAddress(claim.Address)
	if err != nil {
		return err
	}

	sig, err := hex.DecodeString(claim.SignatureHex)
	if err != nil || len(sig) != 64 {
		return ErrInvalidSignature
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])

	digest := sha256.Sum256([]byte(message))
	if !ecdsa.Verify(pub, digest[:], r, s) {
		return ErrInvalidSignature
	}
	return nil
}

func decodeAddress(address string) (*ecdsa.PublicKey, error) {
	raw, err := hex.DecodeString(address)
	if err != nil {
		return nil, ErrMalformedAddress
	}
	curve := elliptic.P256()
	x, y := elliptic.Unmarshal(curve, raw)
	if x == nil {
		return nil, ErrMalformedAddress
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}
