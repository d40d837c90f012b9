// Package stream establishes the WHEP video session: offer/answer exchange
// with a bounded ICE-gathering wait and an ordered chain of body encodings
// for servers that only speak the legacy form upload.
package stream

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Rrisinglight/isabella/internal/tracker"
	"github.com/sirupsen/logrus"
)

// Encoding is one way of carrying the SDP offer to the negotiation endpoint
// and decoding the answer from the response.
type Encoding interface {
	Name() string
	Post(ctx context.Context, client *http.Client, endpoint, offerSDP string) (answerSDP string, err error)
}

// RawSDP posts the offer as-is with content-type application/sdp; the
// answer comes back as plain SDP.
type RawSDP struct{}

func (RawSDP) Name() string { return "application/sdp" }

func (RawSDP) Post(ctx context.Context, client *http.Client, endpoint, offerSDP string) (string, error) {
	return post(ctx, client, endpoint, "application/sdp", strings.NewReader(offerSDP), func(body []byte) (string, error) {
		return string(body), nil
	})
}

// Base64Form is the legacy encoding: a form upload with a base64 offer in
// the data field; the answer is base64 text.
type Base64Form struct{}

func (Base64Form) Name() string { return "base64-form" }

func (Base64Form) Post(ctx context.Context, client *http.Client, endpoint, offerSDP string) (string, error) {
	form := url.Values{"data": {base64.StdEncoding.EncodeToString([]byte(offerSDP))}}
	return post(ctx, client, endpoint, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()), func(body []byte) (string, error) {
			decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(body)))
			if err != nil {
				return "", &tracker.ProtocolError{Op: "WHEP answer", Msg: fmt.Sprintf("bad base64 answer: %v", err)}
			}
			return string(decoded), nil
		})
}

func post(ctx context.Context, client *http.Client, endpoint, contentType string,
	body io.Reader, decode func([]byte) (string, error)) (string, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", &tracker.NetworkError{Op: "POST " + endpoint, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/sdp")

	resp, err := client.Do(req)
	if err != nil {
		return "", &tracker.NetworkError{Op: "POST " + endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &tracker.NetworkError{Op: "POST " + endpoint, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &tracker.ProtocolError{Op: "POST " + endpoint, StatusCode: resp.StatusCode, Msg: strings.TrimSpace(string(raw))}
	}

	answer, err := decode(raw)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", &tracker.ProtocolError{Op: "POST " + endpoint, Msg: "empty answer SDP"}
	}
	return answer, nil
}

// DefaultEncodings is the negotiation fallback order: raw SDP first, the
// legacy base64 form second. Appending here adds encodings without touching
// the negotiation state machine.
func DefaultEncodings() []Encoding {
	return []Encoding{RawSDP{}, Base64Form{}}
}

// exchange tries each encoding in order, once each, returning the first
// answer. The last error wins when every encoding fails.
func exchange(ctx context.Context, client *http.Client, endpoint, offerSDP string,
	chain []Encoding, log *logrus.Logger) (string, error) {

	var lastErr error
	for _, enc := range chain {
		answer, err := enc.Post(ctx, client, endpoint, offerSDP)
		if err == nil {
			return answer, nil
		}
		log.WithError(err).WithField("encoding", enc.Name()).Warn("negotiation POST failed")
		lastErr = err
	}
	if lastErr == nil {
		lastErr = &tracker.ProtocolError{Op: "POST " + endpoint, Msg: "no encodings configured"}
	}
	return "", lastErr
}
