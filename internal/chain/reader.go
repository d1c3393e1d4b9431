// Package chain performs read-only calls against the Self hub contract.
package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"github.com/selfxyz/self-mcp/internal/apperr"
	"github.com/selfxyz/self-mcp/internal/identity"
	"github.com/selfxyz/self-mcp/internal/networks"
)

// DefaultTimeout bounds a single dial plus contract call.
const DefaultTimeout = 15 * time.Second

// Backend is a closable contract caller.
type Backend interface {
	bind.ContractCaller
	Close()
}

// Dialer opens a backend for an RPC URL.
type Dialer func(ctx context.Context, rpcURL string) (Backend, error)

// DialEthclient dials rpcURL with go-ethereum's ethclient.
func DialEthclient(ctx context.Context, rpcURL string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Options configures a Reader.
type Options struct {
	Timeout time.Duration
	Dialer  Dialer
}

// Reader issues one read-only hub call per operation. It holds no connection
// between calls and never retries.
type Reader struct {
	networks *networks.Table
	timeout  time.Duration
	dial     Dialer
	logger   zerolog.Logger
}

// NewReader creates a reader over the given network table.
func NewReader(table *networks.Table, logger zerolog.Logger, opts Options) *Reader {
	if table == nil {
		table = networks.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Dialer == nil {
		opts.Dialer = DialEthclient
	}
	return &Reader{
		networks: table,
		timeout:  opts.Timeout,
		dial:     opts.Dialer,
		logger:   logger.With().Str("component", "chain").Logger(),
	}
}

// ConfigReport is the decoded hub state for one config ID.
type ConfigReport struct {
	Network    networks.Network
	ConfigID   common.Hash
	Exists     bool
	Config     identity.VerificationConfig
	HubAddress common.Address
}

// ConfigExists calls verificationConfigV2Exists on the network's hub.
func (r *Reader) ConfigExists(ctx context.Context, network string, configID common.Hash) (bool, error) {
	var exists bool
	err := r.withHub(ctx, network, MethodConfigExists, func(opts *bind.CallOpts, hub *Hub) error {
		var err error
		exists, err = hub.VerificationConfigV2Exists(opts, configID)
		return err
	})
	return exists, err
}

// ReadConfig checks that configID exists and, if so, reads it.
func (r *Reader) ReadConfig(ctx context.Context, network string, configID common.Hash) (ConfigReport, error) {
	report := ConfigReport{ConfigID: configID}

	err := r.withHub(ctx, network, MethodGetConfig, func(opts *bind.CallOpts, hub *Hub) error {
		report.HubAddress = hub.Address()

		exists, err := hub.VerificationConfigV2Exists(opts, configID)
		if err != nil {
			return err
		}
		report.Exists = exists
		if !exists {
			return nil
		}

		report.Config, err = hub.GetVerificationConfigV2(opts, configID)
		return err
	})
	if err != nil {
		return ConfigReport{}, err
	}

	n, _ := r.networks.Get(network)
	report.Network = n
	return report, nil
}

func (r *Reader) withHub(ctx context.Context, network, method string, fn func(*bind.CallOpts, *Hub) error) error {
	n, ok := r.networks.Get(network)
	if !ok {
		return apperr.InvalidParameter("network", network, r.networks.Keys(), "unknown network")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	logger := r.logger.With().Str("network", n.Key).Str("method", method).Logger()

	backend, err := r.dial(ctx, n.RPCURL)
	if err != nil {
		logger.Warn().Err(err).Msg("dial rpc failed")
		return apperr.Network(n.Key, method, fmt.Errorf("dial %s: %w", n.RPCURL, err))
	}
	defer backend.Close()

	hub, err := NewHub(n.Hub(), backend)
	if err != nil {
		return apperr.InternalConsistency("%v", err)
	}

	if err := fn(&bind.CallOpts{Context: ctx}, hub); err != nil {
		logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("hub call failed")
		return apperr.Network(n.Key, method, err)
	}

	logger.Debug().Dur("elapsed", time.Since(start)).Msg("hub call complete")
	return nil
}
