package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/booksearch"
	"github.com/hupe1980/booksearch/codec"
	"github.com/hupe1980/booksearch/model"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type bookServer struct {
	idx     *booksearch.Index
	metrics *booksearch.BasicMetricsCollector
}

func (b *bookServer) register(s *server.MCPServer) {
	s.AddTool(
		mcp.NewTool("search_book",
			mcp.WithDescription("Search the book. Mode 'all' runs word, phrase, chapter and verse searches; results are capped at max_results."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Word, phrase, chapter number or title, or verse reference such as '3:16'"),
			),
			mcp.WithString("mode",
				mcp.Description("One of all, word, phrase, chapter, verse"),
				mcp.Enum("all", "word", "phrase", "chapter", "verse"),
				mcp.DefaultString("all"),
			),
			mcp.WithNumber("max_results",
				mcp.Description("Maximum number of results (default: 50)"),
			),
		),
		b.handleSearch,
	)

	s.AddTool(
		mcp.NewTool("list_chapters",
			mcp.WithDescription("List the chapters of the book with their page ranges."),
		),
		b.handleListChapters,
	)

	s.AddTool(
		mcp.NewTool("read_page",
			mcp.WithDescription("Read the full text of one page."),
			mcp.WithNumber("page",
				mcp.Required(),
				mcp.Description("1-based page number"),
			),
		),
		b.handleReadPage,
	)

	s.AddTool(
		mcp.NewTool("index_stats",
			mcp.WithDescription("Report index size, cache and query statistics."),
		),
		b.handleStats,
	)
}

func (b *bookServer) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mode, err := model.ParseMode(req.GetString("mode", "all"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results, err := b.idx.Search(ctx, q, mode, req.GetInt("max_results", -1))
	if err != nil {
		return toolError("search", err)
	}

	return jsonResult(struct {
		Query   string         `json:"query"`
		Mode    model.Mode     `json:"mode"`
		Count   int            `json:"count"`
		Results []model.Result `json:"results"`
	}{q, mode, len(results), results})
}

func (b *bookServer) handleListChapters(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chapters, err := b.idx.Chapters(ctx)
	if err != nil {
		return toolError("list chapters", err)
	}
	return jsonResult(chapters)
}

func (b *bookServer) handleReadPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := req.RequireInt("page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	seg, ok, err := b.idx.Page(ctx, page)
	if err != nil {
		return toolError("read page", err)
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("page %d not found", page)), nil
	}
	return jsonResult(seg)
}

func (b *bookServer) handleStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(struct {
		Index   booksearch.Stats             `json:"index"`
		Queries booksearch.BasicMetricsStats `json:"queries"`
	}{b.idx.Stats(), b.metrics.GetStats()})
}

// toolError reports err to the client. Context errors abort the call instead.
func toolError(op string, err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", op, err)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := codec.Default.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
