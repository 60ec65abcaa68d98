package anthropic

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func streamFromLines(lines ...string) *Stream {
	body := io.NopCloser(strings.NewReader(strings.Join(lines, "\n")))
	return newStream(body, 0, zap.NewNop())
}

// drain 读取流直到终止，返回全部增量
func drain(t *testing.T, s *Stream) []string {
	t.Helper()

	var got []string
	for {
		text, err := s.Recv()
		if err == io.EOF {
			return got
		}
		require.NoError(t, err)
		got = append(got, text)
	}
}

func TestStreamBasicSequence(t *testing.T) {
	s := streamFromLines(
		`data: {"type":"content_block_start","content_block":{"type":"text","text":"A"}}`,
		``,
		`data: {"type":"content_block_delta","delta":{"type":"text_delta","text":"B"}}`,
		`data: {"type":"message_stop"}`,
	)

	assert.Equal(t, []string{"A", "B"}, drain(t, s))
}

func TestStreamStopsAtMessageStop(t *testing.T) {
	s := streamFromLines(
		`data: {"type":"message_stop"}`,
		`data: {"type":"content_block_delta","delta":{"text":"never"}}`,
	)

	assert.Empty(t, drain(t, s))

	// 终止后继续拉取仍然返回 EOF
	_, err := s.Recv()
	assert.Equal(t, io.EOF, err)
}

func TestStreamOversizedFrame(t *testing.T) {
	// 远超 bufio.Scanner 默认 64 KiB 行上限的单帧
	big := strings.Repeat("x", 256*1024)
	s := streamFromLines(
		`data: {"type":"content_block_delta","delta":{"type":"text_delta","text":"`+big+`"}}`,
		`data: {"type":"message_stop"}`,
	)

	got := drain(t, s)
	require.Len(t, got, 1)
	assert.Equal(t, big, got[0])
}

func TestStreamSkipsMalformedLines(t *testing.T) {
	s := streamFromLines(
		`data: {"type":"content_block_delta","delta":{"text":"A"}}`,
		`data: {not valid json`,
		`data: {"type":"content_block_delta","delta":{"text":"B"}}`,
		`data: {"type":"message_stop"}`,
	)

	assert.Equal(t, []string{"A", "B"}, drain(t, s))
}

func TestStreamIgnoresUnknownEvents(t *testing.T) {
	s := streamFromLines(
		`data: {"type":"message_start","message":{"id":"msg_1"}}`,
		`data: {"type":"ping"}`,
		`data: {"type":"content_block_delta","delta":{"text":"hello"}}`,
		`data: {"type":"content_block_stop","index":0}`,
		`data: {"type":"message_stop"}`,
	)

	assert.Equal(t, []string{"hello"}, drain(t, s))
}

func TestStreamIgnoresNonDataLines(t *testing.T) {
	s := streamFromLines(
		`event: content_block_delta`,
		`data: {"type":"content_block_delta","delta":{"text":"X"}}`,
		`: heartbeat comment`,
		`data: {"type":"message_stop"}`,
	)

	assert.Equal(t, []string{"X"}, drain(t, s))
}

func TestStreamMessageEventEmitsAllTextParts(t *testing.T) {
	s := streamFromLines(
		`data: {"type":"message","message":{"content":[{"type":"text","text":"one"},{"type":"tool_use"},{"type":"text","text":"two"}]}}`,
		`data: {"type":"message_stop"}`,
	)

	assert.Equal(t, []string{"one", "two"}, drain(t, s))
}

func TestStreamConnectionCloseIsCleanEnd(t *testing.T) {
	// 没有 message_stop，服务端直接关闭连接
	s := streamFromLines(
		`data: {"type":"content_block_delta","delta":{"text":"partial"}}`,
	)

	assert.Equal(t, []string{"partial"}, drain(t, s))
}
