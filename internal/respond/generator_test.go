package respond

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babelbotio/babelbot/internal/chat"
	"github.com/babelbotio/babelbot/internal/conversation"
	"github.com/babelbotio/babelbot/internal/intent"
	"github.com/babelbotio/babelbot/internal/sentiment"
)

type fakeIntentModel struct {
	index      int
	confidence float64
	err        error
}

func (f *fakeIntentModel) Classify(ctx context.Context, text string) (int, float64, error) {
	return f.index, f.confidence, f.err
}

type fakeChat struct {
	content  string
	err      error
	calls    int
	messages []chat.Message
}

func (f *fakeChat) Chat(ctx context.Context, messages []chat.Message) (string, error) {
	f.calls++
	f.messages = messages
	return f.content, f.err
}

func newTestGenerator(t *testing.T, model *fakeIntentModel, backend *fakeChat) *Generator {
	t.Helper()
	catalog, err := intent.NewCatalog([]intent.Entry{
		{Tag: "greeting", Responses: []string{"Hello there!", "Hi!"}},
		{Tag: "thanks", Responses: []string{"You're welcome!"}},
		{Tag: "smalltalk"},
	})
	require.NoError(t, err)

	g := NewGenerator(nil, intent.NewResolver(nil, model, catalog), backend, 0.3, "You are helpful.")
	g.randIntN = func(n int) int { return 0 }
	return g
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		pred      intent.Prediction
		templates int
		want      Branch
	}{
		{name: "confident with templates", pred: intent.Prediction{Label: "greeting", Confidence: 0.9}, templates: 2, want: BranchTemplate},
		{name: "at threshold", pred: intent.Prediction{Label: "greeting", Confidence: 0.3}, templates: 2, want: BranchTemplate},
		{name: "below threshold despite templates", pred: intent.Prediction{Label: "greeting", Confidence: 0.29}, templates: 2, want: BranchGenerative},
		{name: "no templates", pred: intent.Prediction{Label: "smalltalk", Confidence: 0.99}, templates: 0, want: BranchGenerative},
		{name: "unresolved", pred: intent.Prediction{Confidence: 0.9}, templates: 0, want: BranchGenerative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.pred, 0.3, tt.templates))
		})
	}
}

func TestRespondConfidentIntentUsesTemplate(t *testing.T) {
	backend := &fakeChat{content: "generated"}
	g := newTestGenerator(t, &fakeIntentModel{index: 0, confidence: 0.9}, backend)

	reply, err := g.Respond(context.Background(), "hello", []conversation.Turn{conversation.UserTurn("hello")})
	require.NoError(t, err)
	assert.Equal(t, SourceTemplate, reply.Source)
	assert.Equal(t, "Hello there!", reply.Text)
	assert.Zero(t, backend.calls, "generative backend must not run on the template branch")
}

func TestRespondLowConfidenceNeverUsesTemplate(t *testing.T) {
	backend := &fakeChat{content: "generated"}
	g := newTestGenerator(t, &fakeIntentModel{index: 0, confidence: 0.1}, backend)

	reply, err := g.Respond(context.Background(), "hello", []conversation.Turn{conversation.UserTurn("hello")})
	require.NoError(t, err)
	assert.Equal(t, SourceGenerated, reply.Source)
	assert.Equal(t, "generated", reply.Text)
	assert.Equal(t, 1, backend.calls)
}

func TestRespondTagWithoutTemplatesFallsThrough(t *testing.T) {
	backend := &fakeChat{content: "generated"}
	g := newTestGenerator(t, &fakeIntentModel{index: 2, confidence: 0.95}, backend)

	reply, err := g.Respond(context.Background(), "how are you", []conversation.Turn{conversation.UserTurn("how are you")})
	require.NoError(t, err)
	assert.Equal(t, SourceGenerated, reply.Source)
}

func TestRespondGenerativePromptOrder(t *testing.T) {
	backend := &fakeChat{content: "sure"}
	g := newTestGenerator(t, &fakeIntentModel{index: 42, confidence: 0.0}, backend)

	history := []conversation.Turn{
		conversation.UserTurn("first"),
		conversation.AssistantTurn("reply"),
		conversation.UserTurn("second"),
	}
	_, err := g.Respond(context.Background(), "second", history)
	require.NoError(t, err)

	require.Len(t, backend.messages, 4)
	assert.Equal(t, "system", backend.messages[0].Role)
	assert.Equal(t, "first", backend.messages[1].Content)
	assert.Equal(t, "reply", backend.messages[2].Content)
	assert.Equal(t, "second", backend.messages[3].Content)
}

func TestRespondEmptyBackendContentUsesFallback(t *testing.T) {
	backend := &fakeChat{content: "  "}
	g := newTestGenerator(t, &fakeIntentModel{index: 42, confidence: 0.0}, backend)

	reply, err := g.Respond(context.Background(), "hmm", []conversation.Turn{conversation.UserTurn("hmm")})
	require.NoError(t, err)
	assert.Equal(t, FallbackResponse, reply.Text)
}

func TestRespondBackendErrorPropagates(t *testing.T) {
	backend := &fakeChat{err: errors.New("conn refused")}
	g := newTestGenerator(t, &fakeIntentModel{index: 42, confidence: 0.0}, backend)

	_, err := g.Respond(context.Background(), "hmm", []conversation.Turn{conversation.UserTurn("hmm")})
	assert.ErrorContains(t, err, "generative backend")
}

func TestAugment(t *testing.T) {
	assert.Equal(t, "ok"+EmpatheticTrailer, Augment("ok", sentiment.Negative))
	assert.Equal(t, "ok", Augment("ok", sentiment.Positive))
	assert.Equal(t, "ok", Augment("ok", sentiment.Neutral))
}
