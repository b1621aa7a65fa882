// Package clique ties the chain-type packages together: it dispatches a
// wire-format chain serialization to the correct concrete type by
// inspecting its genesis block's `tid` claim, and Bootstrap installs
// remote-backed default KeyStore and ChainStore instances from a
// config.Config.
package clique

import (
	"encoding/json"

	"github.com/nicfit/clique/authchain"
	"github.com/nicfit/clique/chain"
	"github.com/nicfit/clique/chainstore"
	"github.com/nicfit/clique/config"
	"github.com/nicfit/clique/errors"
	"github.com/nicfit/clique/identitychain"
	"github.com/nicfit/clique/jws"
	"github.com/nicfit/clique/keystore"
	"github.com/nicfit/clique/log"
)

// Deserialize hydrates a wire-format chain serialization (a JSON array
// of compact JWS strings) into the concrete chain type named by its
// genesis block's `tid` claim. Suitable for use as a
// chainstore.DeserializeFunc.
func Deserialize(serialized string) (chainstore.Chain, error) {
	tokens, err := chain.ParseTokenArray(serialized)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, errors.ValueError("cannot determine chain type: chain is empty")
	}

	tid, err := peekTID(tokens[0])
	if err != nil {
		return nil, err
	}

	switch tid {
	case identitychain.ChainTypeID:
		return identitychain.Deserialize(serialized)
	case authchain.ChainTypeID:
		return authchain.Deserialize(serialized)
	default:
		return nil, errors.ValueError("unknown chain type: %q", tid)
	}
}

// Bootstrap points the process-wide default KeyStore and ChainStore at
// the remote servers named in cfg, replacing the in-memory Local
// defaults. A logger is built at cfg.LogLevel and shared by both
// stores. Empty URLs are left on their existing default, so a caller
// may set just one of KeyStoreURL/ChainStoreURL.
func Bootstrap(cfg config.Config) error {
	logger := log.WithZero(log.ZeroOptions{})
	logger.SetLevel(cfg.LogLevel)

	if cfg.KeyStoreURL != "" {
		ks, err := keystore.NewRemote(cfg.KeyStoreURL, cfg.RequestTimeout, logger.WithField("component", "keystore"))
		if err != nil {
			return err
		}
		keystore.SetDefault(ks)
	}

	if cfg.ChainStoreURL != "" {
		cs, err := chainstore.NewRemote(cfg.ChainStoreURL, cfg.RequestTimeout, Deserialize, logger.WithField("component", "chainstore"))
		if err != nil {
			return err
		}
		chainstore.SetDefault(cs)
	}

	return nil
}

// peekTID reads the `tid` claim out of a genesis block's JWS payload
// without committing to any particular chain-type's payload shape.
func peekTID(tok string) (string, error) {
	token, err := jws.Parse(tok)
	if err != nil {
		return "", err
	}
	var genesis struct {
		TID string `json:"tid"`
	}
	if err := json.Unmarshal(token.Payload(), &genesis); err != nil {
		return "", errors.Wrap(err, "decode genesis payload")
	}
	if genesis.TID == "" {
		return "", errors.ValueError("genesis block carries no tid claim")
	}
	return genesis.TID, nil
}
