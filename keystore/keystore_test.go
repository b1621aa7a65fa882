package keystore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tdd "github.com/stretchr/testify/assert"

	"github.com/nicfit/clique/jwa"
	"github.com/nicfit/clique/jwk"
)

func TestLocalAddGetContains(t *testing.T) {
	assert := tdd.New(t)

	s := NewLocal()
	key, err := jwk.New(jwa.ES256)
	assert.Nil(err)
	assert.Nil(s.Add(key))

	tp, _ := key.Thumbprint()
	assert.True(s.Contains(tp))
	got, err := s.Get(tp)
	assert.Nil(err)
	assert.Equal(key, got)
}

func TestLocalGetMissingFails(t *testing.T) {
	assert := tdd.New(t)
	s := NewLocal()
	_, err := s.Get("does-not-exist")
	assert.NotNil(err)
}

func TestDefaultStoreSetAndRestore(t *testing.T) {
	assert := tdd.New(t)
	s := NewLocal()
	prev := SetDefault(s)
	defer SetDefault(prev)
	assert.Equal(s, Default())
}

func TestRemoteUploadAndGet(t *testing.T) {
	assert := tdd.New(t)

	key, err := jwk.New(jwa.ES256)
	assert.Nil(err)
	tp, _ := key.Thumbprint()

	mux := http.NewServeMux()
	mux.HandleFunc("/keys", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"kid": tp})
	})
	mux.HandleFunc("/keys/"+tp, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(key.Export(true))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	remote, err := NewRemote(srv.URL, 0, nil)
	assert.Nil(err)
	assert.Nil(remote.Upload(key))

	fresh, err := NewRemote(srv.URL, 0, nil)
	assert.Nil(err)
	got, err := fresh.Get(tp)
	assert.Nil(err)
	gotTP, _ := got.Thumbprint()
	assert.Equal(tp, gotTP)
}
