package reasoning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

var (
	// ErrUnavailable wraps transport or timeout failures talking to the model.
	ErrUnavailable = errors.New("reasoning service unavailable")
	// ErrMalformedOutput means the model answered but not with parseable JSON,
	// even after repair. Callers must fall back explicitly; this package never
	// invents a verdict.
	ErrMalformedOutput = errors.New("malformed reasoning output")
)

const defaultCallTimeout = 30 * time.Second

// Service is the single gateway to the external reasoning capability. All
// prompts in the system flow through one compiled chain: a system framing, an
// optional message history, and the latest user text.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
	timeout   time.Duration
}

// NewService compiles the prompt chain over the supplied chat model. A
// non-positive timeout selects the default of 30s; the timeout is the
// resource-safety floor that keeps a stalled model call from pinning a
// worker indefinitely.
func NewService(ctx context.Context, chatModel model.ChatModel, timeout time.Duration) (*Service, error) {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile reasoning chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		chain:     runnable,
		timeout:   timeout,
	}, nil
}

// Generate runs one completion. history may be nil for single-shot prompts.
// Failures and timeouts surface as ErrUnavailable with the cause attached.
func (s *Service) Generate(ctx context.Context, system string, history []*schema.Message, query string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msg, err := s.chain.Invoke(callCtx, map[string]any{
		"system":  system,
		"history": history,
		"query":   query,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	return msg.Content, nil
}
