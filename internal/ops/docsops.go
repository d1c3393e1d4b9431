package ops

import (
	"context"

	"github.com/selfxyz/self-mcp/internal/apperr"
	"github.com/selfxyz/self-mcp/internal/docs"
	"github.com/selfxyz/self-mcp/internal/validate"
)

func (r *Router) docsOperations() []*Operation {
	return []*Operation{
		{
			Name:        "fetch_self_docs",
			Title:       "Fetch Self protocol documentation",
			Description: "Fetch the latest Self protocol documentation for a topic, optionally narrowed to one section.",
			Params: []validate.Param{
				{Name: "topic", Type: validate.TypeString, Required: true, Enum: docs.TopicNames(), Description: "Documentation topic"},
				{Name: "section", Type: validate.TypeString, Description: "Section heading to extract, e.g. Installation"},
			},
			Handler: r.fetchDocs,
		},
		{
			Name:        "list_docs_topics",
			Title:       "List documentation topics",
			Description: "List the documentation topics accepted by fetch_self_docs.",
			Handler:     r.listDocsTopics,
		},
		{
			Name:        "search_docs",
			Title:       "Search Self protocol documentation",
			Description: "Search every documentation topic for a term.",
			Params: []validate.Param{
				{Name: "query", Type: validate.TypeString, Required: true, Description: "Text to search for"},
				{Name: "max_results", Type: validate.TypeInt, Default: 5, Min: intPtr(1), Max: intPtr(20), Description: "Maximum number of documents to return"},
			},
			Handler: r.searchDocs,
		},
	}
}

func (r *Router) fetchDocs(ctx context.Context, args validate.Args) (Result, error) {
	topic, ok := docs.LookupTopic(args.String("topic"))
	if !ok {
		return Result{}, apperr.InternalConsistency("docs topic %q passed validation but has no path", args.String("topic"))
	}
	content, err := r.deps.Docs.Fetch(ctx, topic.Path)
	if err != nil {
		return Result{}, err
	}
	return textResult(docs.FormatDocument(topic, content, args.String("section"))), nil
}

func (r *Router) listDocsTopics(context.Context, validate.Args) (Result, error) {
	return textResult(docs.FormatTopics()), nil
}

func (r *Router) searchDocs(ctx context.Context, args validate.Args) (Result, error) {
	query := args.String("query")
	results, err := r.deps.Docs.Search(ctx, query, args.Int("max_results"))
	if err != nil {
		return Result{}, err
	}
	return textResult(docs.FormatSearch(query, results)), nil
}
