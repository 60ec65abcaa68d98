package anthropic

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/lk2023060901/local-llm-toolkit/internal/pipe/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainMessage(role, text string) types.ChatMessage {
	return types.ChatMessage{
		Role:    role,
		Content: types.MessageContent{Text: text},
	}
}

func imageMessage(urls ...string) types.ChatMessage {
	parts := []types.ContentPart{{Type: types.PartTypeText, Text: "look at this"}}
	for _, url := range urls {
		parts = append(parts, types.ContentPart{
			Type:     types.PartTypeImageURL,
			ImageURL: &types.ImageURL{URL: url},
		})
	}
	return types.ChatMessage{
		Role:    types.RoleUser,
		Content: types.MessageContent{Parts: parts},
	}
}

func TestStripModelPrefix(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  string
	}{
		{
			name:  "vendor prefixed model",
			model: "anthropic.claude-3-haiku-20240307",
			want:  "claude-3-haiku-20240307",
		},
		{
			name:  "bare model",
			model: "claude-3-haiku-20240307",
			want:  "claude-3-haiku-20240307",
		},
		{
			name:  "only first dot is stripped",
			model: "vendor.model.x",
			want:  "model.x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripModelPrefix(tt.model))
		})
	}
}

func TestProcessImageURL(t *testing.T) {
	t.Run("data URI is parsed into inline source", func(t *testing.T) {
		source, size, err := processImageURL("data:image/png;base64,QQ==")
		require.NoError(t, err)
		assert.Equal(t, "base64", source.Type)
		assert.Equal(t, "image/png", source.MediaType)
		assert.Equal(t, "QQ==", source.Data)
		assert.Equal(t, 3, size)
	})

	t.Run("remote URL passes through with zero size", func(t *testing.T) {
		source, size, err := processImageURL("https://example.com/cat.png")
		require.NoError(t, err)
		assert.Equal(t, "url", source.Type)
		assert.Equal(t, "https://example.com/cat.png", source.URL)
		assert.Zero(t, size)
	})

	t.Run("data URI without base64 marker fails", func(t *testing.T) {
		_, _, err := processImageURL("data:image/png,rawdata")
		assert.Error(t, err)
		assert.True(t, types.IsKind(err, types.ErrorKindPrecondition))
	})
}

func TestBuildRequestSystemExtraction(t *testing.T) {
	req := &types.CompletionRequest{
		Model: "anthropic.claude-3-haiku-20240307",
		Messages: []types.ChatMessage{
			plainMessage(types.RoleSystem, "you are concise"),
			plainMessage(types.RoleUser, "hello"),
		},
	}

	payload, err := buildRequest(req)
	require.NoError(t, err)

	assert.Equal(t, "claude-3-haiku-20240307", payload.Model)
	assert.Equal(t, "you are concise", payload.System)
	require.Len(t, payload.Messages, 1)
	assert.Equal(t, types.RoleUser, payload.Messages[0].Role)
	assert.Equal(t, "hello", payload.Messages[0].Content)
}

func TestBuildRequestDefaults(t *testing.T) {
	req := &types.CompletionRequest{
		Model:    "claude-3-haiku-20240307",
		Messages: []types.ChatMessage{plainMessage(types.RoleUser, "hi")},
	}

	payload, err := buildRequest(req)
	require.NoError(t, err)

	assert.Equal(t, types.DefaultMaxTokens, payload.MaxTokens)
	assert.Equal(t, types.DefaultTemperature, payload.Temperature)
	assert.Equal(t, types.DefaultTopK, payload.TopK)
	assert.Equal(t, types.DefaultTopP, payload.TopP)
	assert.Empty(t, payload.StopSequences)
}

func TestBuildRequestImageLimits(t *testing.T) {
	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("img"))

	t.Run("five images succeed", func(t *testing.T) {
		urls := make([]string, 5)
		for i := range urls {
			urls[i] = dataURI
		}
		req := &types.CompletionRequest{
			Model:    "claude-3-haiku-20240307",
			Messages: []types.ChatMessage{imageMessage(urls...)},
		}

		payload, err := buildRequest(req)
		require.NoError(t, err)

		blocks, ok := payload.Messages[0].Content.([]anthropicContentBlock)
		require.True(t, ok)
		imageBlocks := 0
		for _, block := range blocks {
			if block.Type == "image" {
				imageBlocks++
			}
		}
		assert.Equal(t, 5, imageBlocks)
	})

	t.Run("sixth image fails", func(t *testing.T) {
		urls := make([]string, 6)
		for i := range urls {
			urls[i] = dataURI
		}
		req := &types.CompletionRequest{
			Model:    "claude-3-haiku-20240307",
			Messages: []types.ChatMessage{imageMessage(urls...)},
		}

		_, err := buildRequest(req)
		require.Error(t, err)
		assert.True(t, types.IsKind(err, types.ErrorKindPrecondition))
		assert.Contains(t, err.Error(), "max images")
	})

	t.Run("count spans multiple messages", func(t *testing.T) {
		req := &types.CompletionRequest{
			Model: "claude-3-haiku-20240307",
			Messages: []types.ChatMessage{
				imageMessage(dataURI, dataURI, dataURI),
				plainMessage(types.RoleAssistant, "noted"),
				imageMessage(dataURI, dataURI, dataURI),
			},
		}

		_, err := buildRequest(req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max images")
	})

	t.Run("oversized inline data fails", func(t *testing.T) {
		// 一张 base64 文本超过 100 MiB 解码上限的图片
		huge := "data:image/png;base64," + strings.Repeat("A", (MaxTotalImageBytes/3)*4+8)
		req := &types.CompletionRequest{
			Model:    "claude-3-haiku-20240307",
			Messages: []types.ChatMessage{imageMessage(huge)},
		}

		_, err := buildRequest(req)
		require.Error(t, err)
		assert.True(t, types.IsKind(err, types.ErrorKindPrecondition))
		assert.Contains(t, err.Error(), "max total size")
	})

	t.Run("remote images do not count toward size", func(t *testing.T) {
		req := &types.CompletionRequest{
			Model: "claude-3-haiku-20240307",
			Messages: []types.ChatMessage{
				imageMessage(
					"https://example.com/a.png",
					"https://example.com/b.png",
					"https://example.com/c.png",
				),
			},
		}

		_, err := buildRequest(req)
		assert.NoError(t, err)
	})
}

func TestBuildRequestMixedContent(t *testing.T) {
	req := &types.CompletionRequest{
		Model: "claude-3-haiku-20240307",
		Messages: []types.ChatMessage{
			{
				Role: types.RoleUser,
				Content: types.MessageContent{Parts: []types.ContentPart{
					{Type: types.PartTypeText, Text: "what is in this image?"},
					{Type: types.PartTypeImageURL, ImageURL: &types.ImageURL{URL: "data:image/png;base64,QQ=="}},
				}},
			},
		},
	}

	payload, err := buildRequest(req)
	require.NoError(t, err)

	blocks, ok := payload.Messages[0].Content.([]anthropicContentBlock)
	require.True(t, ok)
	require.Len(t, blocks, 2)
	assert.Equal(t, "text", blocks[0].Type)
	assert.Equal(t, "what is in this image?", blocks[0].Text)
	assert.Equal(t, "image", blocks[1].Type)
	require.NotNil(t, blocks[1].Source)
	assert.Equal(t, "image/png", blocks[1].Source.MediaType)
}
