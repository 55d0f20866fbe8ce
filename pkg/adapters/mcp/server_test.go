package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/marginalia/pkg/adapters/clipboard"
	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<div class="chat">
	<div class="user-message">Give me the HTTP status classes</div>
	<table><tr><th>Class</th><th>Meaning</th></tr><tr><td>2xx</td><td>Success</td></tr></table>
</div>`

func TestHandleTables(t *testing.T) {
	s := NewServer(nil, nil, 0)
	ctx := context.Background()

	resp, err := s.handleTables(ctx, mcp.CallToolRequest{}, TablesArgs{HTML: page})
	require.NoError(t, err)
	require.Len(t, resp.Tables, 1)
	assert.Equal(t, "| Class | Meaning |\n| --- | --- |\n| 2xx | Success |\n", resp.Tables[0].Markdown)

	_, err = s.handleTables(ctx, mcp.CallToolRequest{}, TablesArgs{HTML: page, Number: 3})
	assert.ErrorIs(t, err, domain.ErrTableIndex)

	_, err = s.handleTables(ctx, mcp.CallToolRequest{}, TablesArgs{HTML: "<p>none</p>"})
	assert.ErrorIs(t, err, domain.ErrNoTables)
}

func TestHandleTurns(t *testing.T) {
	s := NewServer(nil, nil, 0)

	idx, err := s.handleTurns(context.Background(), mcp.CallToolRequest{}, TurnsArgs{HTML: page})
	require.NoError(t, err)
	assert.Equal(t, "user-message", idx.Strategy)
	require.Len(t, idx.Turns, 1)
	assert.Equal(t, "Give me the HTTP status classes", idx.Turns[0].Text)
}

func TestHandleCopy(t *testing.T) {
	mem := clipboard.NewMemory()
	s := NewServer(nil, mem, 0)

	resp, err := s.handleCopy(context.Background(), mcp.CallToolRequest{}, TablesArgs{HTML: page, Number: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Number)

	last, ok := mem.Last()
	require.True(t, ok)
	assert.Equal(t, resp.Bytes, len(last))
}
