// Package ops implements the static operation table behind the MCP tools.
package ops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/selfxyz/self-mcp/internal/apperr"
	"github.com/selfxyz/self-mcp/internal/catalog"
	"github.com/selfxyz/self-mcp/internal/chain"
	"github.com/selfxyz/self-mcp/internal/docs"
	"github.com/selfxyz/self-mcp/internal/networks"
	"github.com/selfxyz/self-mcp/internal/validate"
)

// Result is the text returned by an operation.
type Result struct {
	Text string `json:"text"`
}

// Handler executes an operation with validated arguments.
type Handler func(ctx context.Context, args validate.Args) (Result, error)

// Operation is one entry in the router table.
type Operation struct {
	Name        string
	Title       string
	Description string
	Params      []validate.Param
	// Normalize runs after per-parameter validation for checks that span
	// arguments. It may fill in argument-dependent defaults.
	Normalize func(args validate.Args) error
	Handler   Handler
}

// ChainReader is the read-only hub access used by chain operations.
type ChainReader interface {
	ConfigExists(ctx context.Context, network string, configID common.Hash) (bool, error)
	ReadConfig(ctx context.Context, network string, configID common.Hash) (chain.ConfigReport, error)
}

// DocsSource fetches and searches documentation.
type DocsSource interface {
	Fetch(ctx context.Context, path string) (string, error)
	Search(ctx context.Context, query string, maxResults int) ([]docs.SearchResult, error)
}

// Deps are the collaborators shared by all handlers.
type Deps struct {
	Catalog  *catalog.Catalog
	Networks *networks.Table
	Chain    ChainReader
	Docs     DocsSource
	Logger   zerolog.Logger
}

// Router dispatches operations by name. The table is fixed at construction.
type Router struct {
	deps   Deps
	logger zerolog.Logger
	ops    map[string]*Operation
	order  []string
}

// New builds the router and its operation table.
func New(deps Deps) (*Router, error) {
	if deps.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if deps.Networks == nil {
		deps.Networks = networks.Default()
	}
	if deps.Chain == nil {
		return nil, errors.New("chain reader is required")
	}
	if deps.Docs == nil {
		return nil, errors.New("docs source is required")
	}

	r := &Router{
		deps:   deps,
		logger: deps.Logger.With().Str("component", "router").Logger(),
		ops:    make(map[string]*Operation),
	}

	for _, op := range r.table() {
		if _, exists := r.ops[op.Name]; exists {
			return nil, fmt.Errorf("duplicate operation %q", op.Name)
		}
		r.ops[op.Name] = op
		r.order = append(r.order, op.Name)
	}

	if err := r.checkCatalog(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Router) table() []*Operation {
	var table []*Operation
	table = append(table, r.guideOperations()...)
	table = append(table, r.docsOperations()...)
	table = append(table, r.chainOperations()...)
	return table
}

// Operations returns the operation table in registration order.
func (r *Router) Operations() []*Operation {
	out := make([]*Operation, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.ops[name])
	}
	return out
}

// Get returns a registered operation.
func (r *Router) Get(name string) (*Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Names returns the operation names sorted alphabetically.
func (r *Router) Names() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Dispatch validates raw against the named operation and runs its handler.
func (r *Router) Dispatch(ctx context.Context, name string, raw map[string]any) (Result, error) {
	requestID := uuid.NewString()
	logger := r.logger.With().Str("request_id", requestID).Str("operation", name).Logger()
	start := time.Now()

	result, err := r.dispatch(ctx, name, raw)
	if err != nil {
		kind := apperr.KindOf(err)
		event := logger.Debug()
		if kind == apperr.KindInternalConsistency || kind == apperr.KindUnknown {
			event = logger.Error()
		}
		event.Err(err).Str("kind", string(kind)).Dur("elapsed", time.Since(start)).Msg("operation failed")
		return Result{}, err
	}

	logger.Debug().Dur("elapsed", time.Since(start)).Msg("operation complete")
	return result, nil
}

func (r *Router) dispatch(ctx context.Context, name string, raw map[string]any) (Result, error) {
	op, ok := r.ops[name]
	if !ok {
		return Result{}, &apperr.UnknownOperationError{Name: name, Available: r.Names()}
	}

	args, err := validate.Apply(op.Params, raw)
	if err != nil {
		return Result{}, err
	}
	if op.Normalize != nil {
		if err := op.Normalize(args); err != nil {
			return Result{}, err
		}
	}
	return op.Handler(ctx, args)
}

func textResult(text string) Result {
	return Result{Text: text}
}

func jsonResult(v any) (Result, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Result{}, apperr.InternalConsistency("encode result: %v", err)
	}
	return Result{Text: string(data)}, nil
}
