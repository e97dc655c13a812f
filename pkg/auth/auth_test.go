package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genKey(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	pubBytes := elliptic.Marshal(elliptic.P256(), priv.X, priv.Y)
	return priv, hex.EncodeToString(pubBytes)
}

func sign(t *testing.T, priv *ecdsa.PrivateKey, message string) string {
	t.Helper()
	digest := sha256.Sum256([]byte(message))
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	require.NoError(t, err)
	sig := make([]byte, 64)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return hex.EncodeToString(sig)
}

func TestParseHeaders_MissingAnyHeaderErrors(t *testing.T) {
	h := http.Header{}
	h.Set("X-Owner-Address", "abc")
	h.Set("X-Owner-Signature", "def")
	_, err := ParseHeaders(h)
	assert.ErrorIs(t, err, ErrMissingHeaders)
}

func TestParseHeaders_TimestampOutsideWindowErrors(t *testing.T) {
	h := http.Header{}
	h.Set("X-Owner-Address", "abc")
	h.Set("X-Owner-Signature", "def")
	h.Set("X-Owner-Timestamp", strconv.FormatInt(time.Now().Add(-10*time.Minute).UnixMilli(), 10))
	_, err := ParseHeaders(h)
	assert.ErrorIs(t, err, ErrTimestampOutOfWindow)
}

func TestVerifySignature_ValidSignatureSucceeds(t *testing.T) {
	priv, address := genKey(t)
	message := SignedMessage("resource-1", 1000)
	sig := sign(t, priv, message)

	claim := OwnerClaim{Address: address, SignatureHex: sig, TimestampMS: 1000}
	assert.NoError(t, VerifySignature(claim, message))
}

func TestVerifySignature_TamperedMessageFails(t *testing.T) {
	priv, address := genKey(t)
	sig := sign(t, priv, SignedMessage("resource-1", 1000))

	claim := OwnerClaim{Address: address, SignatureHex: sig, TimestampMS: 1000}
	err := VerifySignature(claim, SignedMessage("resource-2", 1000))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignature_MalformedAddressFails(t *testing.T) {
	claim := OwnerClaim{Address: "not-hex", SignatureHex: "00"}
	err := VerifySignature(claim, "msg")
	assert.ErrorIs(t, err, ErrMalformedAddress)
}
