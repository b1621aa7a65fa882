package chainstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nicfit/clique/errors"
	"github.com/nicfit/clique/log"
	"github.com/nicfit/clique/netutil"
)

// DeserializeFunc hydrates the wire-format chain serialization (a JSON
// array of compact JWS strings) into a Chain, dispatching to the
// correct chain subtype via the chain factory (see package clique).
type DeserializeFunc func(serialized string) (Chain, error)

// Remote is an HTTP-backed Store that uses a Local store as its cache.
type Remote struct {
	*Local
	url         string
	hc          *netutil.Client
	log         log.Logger
	deserialize DeserializeFunc
}

// NewRemote returns a Remote store backed by the chain server at url.
// deserialize is used to hydrate a chain fetched from the server; it is
// typically clique.Deserialize. Every request is bounded by timeout; a
// non-positive value falls back to a 5-second default.
func NewRemote(url string, timeout time.Duration, deserialize DeserializeFunc, logger log.Logger) (*Remote, error) {
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
	return &Remote{Local: NewLocal(), url: url, hc: hc, log: logger, deserialize: deserialize}, nil
}

// Upload POSTs every block in chain, individually, to <url>/blocks, then
// caches the chain locally.
func (s *Remote) Upload(chain Chain) error {
	tokens, err := chain.BlockTokens()
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		resp, err := s.hc.Post(context.Background(), s.url+"/blocks", "application/jose", strings.NewReader(tok))
		if err != nil {
			s.log.Error(err)
			return errors.RequestError(0, err.Error())
		}
		status := resp.StatusCode
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if status != http.StatusCreated {
			s.log.Errorf("block upload failed: %d %s", status, respBody)
			return errors.RequestError(status, string(respBody))
		}
	}
	return s.Local.Add(chain)
}

// Get resolves subject from the local cache, falling through to an HTTP
// GET against the remote server on a cache miss.
func (s *Remote) Get(subject string) (Chain, error) {
	if chain, err := s.Local.Get(subject); err == nil {
		return chain, nil
	}

	resp, err := s.hc.Get(context.Background(), fmt.Sprintf("%s/chains/%s", s.url, subject))
	if err != nil {
		s.log.Error(err)
		return nil, errors.ChainNotFound(subject)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Errorf("chain fetch failed: %d", resp.StatusCode)
		return nil, errors.ChainNotFound(subject)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	chain, err := s.deserialize(string(body))
	if err != nil {
		return nil, err
	}
	if err := s.Local.Add(chain); err != nil {
		return nil, err
	}
	return chain, nil
}
