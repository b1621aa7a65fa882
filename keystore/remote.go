package keystore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nicfit/clique/errors"
	"github.com/nicfit/clique/jwa"
	"github.com/nicfit/clique/jwk"
	"github.com/nicfit/clique/log"
	"github.com/nicfit/clique/netutil"
)

// Remote is an HTTP-backed Store that uses a Local store as its cache.
// Lookups consult the cache first; a miss falls through to the server.
type Remote struct {
	*Local
	url string
	hc  *netutil.Client
	log log.Logger
}

// NewRemote returns a Remote store backed by the key server at url
// (e.g. "https://keys.example.com"). Every request is bounded by
// timeout; a non-positive value falls back to a 5-second default.
func NewRemote(url string, timeout time.Duration, logger log.Logger) (*Remote, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hc, err := netutil.NewClient(netutil.WithTimeout(timeout))
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Remote{Local: NewLocal(), url: url, hc: hc, log: logger}, nil
}

// Upload publishes key's public material to the remote server, then
// caches it locally once the server confirms the thumbprint it assigned
// matches the caller's.
func (s *Remote) Upload(key jwk.Key) error {
	tp, err := key.Thumbprint()
	if err != nil {
		return err
	}

	body, err := json.Marshal(key.Export(true))
	if err != nil {
		return err
	}
	resp, err := s.hc.Post(context.Background(), s.url+"/keys", "application/json", bytes.NewReader(body))
	if err != nil {
		s.log.Error(err)
		return errors.RequestError(0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		s.log.Errorf("key upload failed: %d %s", resp.StatusCode, respBody)
		return errors.RequestError(resp.StatusCode, string(respBody))
	}

	var echoed struct {
		KeyID string `json:"kid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&echoed); err != nil {
		return err
	}
	if echoed.KeyID != tp {
		return errors.ValueError("kid changed on upload: got %q, want %q", echoed.KeyID, tp)
	}

	s.log.Debugf("key uploaded, thumbprint: %s", tp)
	return s.Local.Add(key)
}

// Get resolves tp from the local cache, falling through to an HTTP GET
// against the remote server on a cache miss.
func (s *Remote) Get(tp string) (jwk.Key, error) {
	if key, err := s.Local.Get(tp); err == nil {
		return key, nil
	}

	resp, err := s.hc.Get(context.Background(), fmt.Sprintf("%s/keys/%s", s.url, tp))
	if err != nil {
		s.log.Error(err)
		return nil, errors.KeyNotFound(tp)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Errorf("key fetch failed: %d", resp.StatusCode)
		return nil, errors.KeyNotFound(tp)
	}

	var record jwk.Record
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, err
	}
	key, err := jwk.Import(record, jwa.ES256)
	if err != nil {
		return nil, err
	}
	if err := s.Local.Add(key); err != nil {
		return nil, err
	}
	return key, nil
}
