package chainstore

import (
	"net/http"
	"net/http/httptest"
	"testing"

	tdd "github.com/stretchr/testify/assert"
)

type fakeChain struct {
	subject string
	tokens  []string
}

func (f *fakeChain) Subject() string                { return f.subject }
func (f *fakeChain) Serialize() (string, error)     { return `["` + f.tokens[0] + `"]`, nil }
func (f *fakeChain) BlockTokens() ([]string, error) { return f.tokens, nil }

func TestLocalAddRejectsDuplicateSubject(t *testing.T) {
	assert := tdd.New(t)

	s := NewLocal()
	c := &fakeChain{subject: "urn:example:one", tokens: []string{"tok"}}
	assert.Nil(s.Add(c))
	assert.NotNil(s.Add(c))
}

func TestLocalGetMissingFails(t *testing.T) {
	assert := tdd.New(t)
	s := NewLocal()
	_, err := s.Get("urn:example:missing")
	assert.NotNil(err)
}

func TestRemoteUploadPostsEachBlock(t *testing.T) {
	assert := tdd.New(t)

	c := &fakeChain{subject: "urn:example:one", tokens: []string{"tok1", "tok2"}}
	var posts int
	mux := http.NewServeMux()
	mux.HandleFunc("/blocks", func(w http.ResponseWriter, r *http.Request) {
		posts++
		w.WriteHeader(http.StatusCreated)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	remote, err := NewRemote(srv.URL, 0, nil, nil)
	assert.Nil(err)
	assert.Nil(remote.Upload(c))
	assert.Equal(2, posts)

	got, err := remote.Get(c.subject)
	assert.Nil(err)
	assert.Equal(c, got)
}

func TestRemoteGetFallsThroughToDeserializeFunc(t *testing.T) {
	assert := tdd.New(t)

	c := &fakeChain{subject: "urn:example:two", tokens: []string{"tok"}}
	mux := http.NewServeMux()
	mux.HandleFunc("/chains/urn:example:two", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["tok"]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	deserialize := func(serialized string) (Chain, error) {
		return c, nil
	}
	remote, err := NewRemote(srv.URL, 0, deserialize, nil)
	assert.Nil(err)

	got, err := remote.Get("urn:example:two")
	assert.Nil(err)
	assert.Equal(c, got)
}
