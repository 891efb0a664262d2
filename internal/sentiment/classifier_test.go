package sentiment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want Label
	}{
		{raw: "POSITIVE", want: Positive},
		{raw: "negative", want: Negative},
		{raw: "Neutral", want: Neutral},
		{raw: "LABEL_0", want: Negative},
		{raw: "LABEL_1", want: Neutral},
		{raw: "LABEL_2", want: Positive},
		{raw: " pos ", want: Positive},
		{raw: "5 stars", want: Neutral},
		{raw: "", want: Neutral},
		{raw: "garbage", want: Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, MapLabel(tt.raw))
		})
	}
}

type fakeModel struct {
	raw string
	err error
}

func (f *fakeModel) Classify(ctx context.Context, text string) (string, error) {
	return f.raw, f.err
}

func TestClassifierNormalizesModelOutput(t *testing.T) {
	c := NewClassifier(nil, &fakeModel{raw: "NEGATIVE"})

	label, err := c.Classify(context.Background(), "this is terrible")
	require.NoError(t, err)
	assert.Equal(t, Negative, label)
}

func TestClassifierPropagatesModelErrors(t *testing.T) {
	c := NewClassifier(nil, &fakeModel{err: errors.New("timeout")})

	_, err := c.Classify(context.Background(), "hello")
	assert.ErrorContains(t, err, "sentiment model")
}

func TestInferenceClientPicksTopScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[{"label":"NEGATIVE","score":0.1},{"label":"POSITIVE","score":0.88},{"label":"NEUTRAL","score":0.02}]]`))
	}))
	defer srv.Close()

	client := NewInferenceClient(srv.URL, "", 0)
	raw, err := client.Classify(context.Background(), "I am very happy today!")
	require.NoError(t, err)
	assert.Equal(t, "POSITIVE", raw)
}

func TestInferenceClientAcceptsFlatShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"label":"NEUTRAL","score":0.7}]`))
	}))
	defer srv.Close()

	client := NewInferenceClient(srv.URL, "", 0)
	raw, err := client.Classify(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "NEUTRAL", raw)
}

func TestInferenceClientSurfacesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewInferenceClient(srv.URL, "", 0)
	_, err := client.Classify(context.Background(), "hello")
	assert.ErrorContains(t, err, "status 503")
}
