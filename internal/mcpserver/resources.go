package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/selfxyz/self-mcp/internal/ops"
)

const markdownMIME = "text/markdown"

func (s *Server) registerResources() {
	for _, res := range s.router.Resources() {
		resource := mcp.NewResource(res.URI, res.Name,
			mcp.WithResourceDescription(res.Description),
			mcp.WithMIMEType(res.MIMEType),
		)
		s.mcp.AddResource(resource, s.readResource)
	}

	template := mcp.NewResourceTemplate(ops.ExamplesURITemplate, "Self integration examples",
		mcp.WithTemplateDescription("Complete integration walkthroughs; example_type is one of the listed examples"),
		mcp.WithTemplateMIMEType(markdownMIME),
	)
	s.mcp.AddResourceTemplate(template, s.readResource)
}

func (s *Server) readResource(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	text, err := s.router.ReadResource(uri)
	if err != nil {
		s.logger.Debug().Err(err).Str("uri", uri).Msg("resource read failed")
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: markdownMIME,
			Text:     text,
		},
	}, nil
}
