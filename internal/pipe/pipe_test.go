package pipe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lk2023060901/local-llm-toolkit/internal/pipe/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRequest(stream bool) *types.CompletionRequest {
	return &types.CompletionRequest{
		Model:  "anthropic.claude-3-haiku-20240307",
		Stream: stream,
		Messages: []types.ChatMessage{
			{Role: types.RoleUser, Content: types.MessageContent{Text: "hi"}},
		},
	}
}

func newTestPipe(baseURL string) *Pipe {
	return New(&types.Config{APIKey: "key", BaseURL: baseURL}, nil)
}

func TestCompleteReturnsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":[{"type":"text","text":"pong"}]}`)
	}))
	defer server.Close()

	p := newTestPipe(server.URL)
	assert.Equal(t, "pong", p.Complete(context.Background(), userRequest(false)))
}

func TestCompleteFlattensFailureToErrorString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer server.Close()

	p := newTestPipe(server.URL)
	result := p.Complete(context.Background(), userRequest(false))

	assert.True(t, strings.HasPrefix(result, "Error:"), "got %q", result)
	assert.Contains(t, result, "401")
}

func TestCompleteStreamYieldsIncrements(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"type\":\"content_block_delta\",\"delta\":{\"text\":\"A\"}}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"content_block_delta\",\"delta\":{\"text\":\"B\"}}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"message_stop\"}\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	p := newTestPipe(server.URL)
	stream := p.CompleteStream(context.Background(), userRequest(true))
	defer stream.Close()

	var got []string
	for {
		text, ok := stream.Next()
		if !ok {
			break
		}
		got = append(got, text)
	}

	assert.Equal(t, []string{"A", "B"}, got)
}

func TestCompleteStreamFlattensFailureToErrorIncrement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "overloaded")
	}))
	defer server.Close()

	p := newTestPipe(server.URL)
	stream := p.CompleteStream(context.Background(), userRequest(true))

	text, ok := stream.Next()
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "Error:"), "got %q", text)

	// 错误增量之后序列终止
	_, ok = stream.Next()
	assert.False(t, ok)
}

func TestCompleteStreamPreconditionFailure(t *testing.T) {
	req := userRequest(true)
	parts := []types.ContentPart{}
	for i := 0; i < 6; i++ {
		parts = append(parts, types.ContentPart{
			Type:     types.PartTypeImageURL,
			ImageURL: &types.ImageURL{URL: "data:image/png;base64,QQ=="},
		})
	}
	req.Messages = []types.ChatMessage{
		{Role: types.RoleUser, Content: types.MessageContent{Parts: parts}},
	}

	p := newTestPipe("http://unreachable.invalid")
	stream := p.CompleteStream(context.Background(), req)

	text, ok := stream.Next()
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "Error:"))
	assert.Contains(t, text, "max images")
}

func TestModels(t *testing.T) {
	p := newTestPipe("http://unreachable.invalid")
	models := p.Models()

	require.NotEmpty(t, models)
	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}
	assert.Contains(t, ids, "anthropic.claude-3-haiku-20240307")
}
