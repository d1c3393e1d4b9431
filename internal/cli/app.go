package cli

import (
	"fmt"

	"github.com/selfxyz/self-mcp/internal/catalog"
	"github.com/selfxyz/self-mcp/internal/chain"
	"github.com/selfxyz/self-mcp/internal/config"
	"github.com/selfxyz/self-mcp/internal/docs"
	"github.com/selfxyz/self-mcp/internal/networks"
	"github.com/selfxyz/self-mcp/internal/ops"
)

// newRouter assembles the operation router from cfg.
func newRouter(cfg *config.Config) (*ops.Router, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	table := networkTable(cfg)
	reader := chain.NewReader(table, logger("chain"), chain.Options{Timeout: cfg.Chain.Timeout})
	docsClient := docs.NewClient(logger("docs"), docs.Options{
		APIURL:  cfg.Docs.APIURL,
		Repo:    cfg.Docs.Repo,
		Timeout: cfg.Docs.Timeout,
	})

	router, err := ops.New(ops.Deps{
		Catalog:  cat,
		Networks: table,
		Chain:    reader,
		Docs:     docsClient,
		Logger:   logger("ops"),
	})
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}
	return router, nil
}

func networkTable(cfg *config.Config) *networks.Table {
	if cfg == nil {
		return networks.Default()
	}
	return networks.Default().WithRPCOverrides(cfg.RPCOverrides())
}
