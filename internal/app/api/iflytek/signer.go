package iflytek

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"time"
)

// Credentials holds the LFASR account credentials. The struct is immutable;
// signatures are derived from it per call rather than cached on it, so one
// client instance is safe to share across concurrent jobs.
type Credentials struct {
	AppID     string
	SecretKey string
}

// Signature is a time-bound authentication token. It is only valid together
// with the timestamp it was derived from, so callers request a fresh one
// immediately before each network phase and never reuse it across the
// upload and polling phases.
type Signature struct {
	TS    string
	Value string
}

// Sign derives the request signature for the given unix timestamp:
// base64(HMAC-SHA1(secretKey, hex(MD5(appID+ts)))). Deterministic and pure.
func (c Credentials) Sign(ts string) Signature {
	sum := md5.Sum([]byte(c.AppID + ts))
	md5Hex := hex.EncodeToString(sum[:])

	mac := hmac.New(sha1.New, []byte(c.SecretKey))
	mac.Write([]byte(md5Hex))

	return Signature{
		TS:    ts,
		Value: base64.StdEncoding.EncodeToString(mac.Sum(nil)),
	}
}

// SignNow derives a signature for the current time.
func (c Credentials) SignNow() Signature {
	return c.Sign(strconv.FormatInt(time.Now().Unix(), 10))
}
