package language

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLanguageService struct {
	detectLang    string
	detectErr     error
	translated    string
	translateErr  error
	detectCalls   int
	translateCall int
	lastFrom      string
	lastTo        string
}

func (f *fakeLanguageService) Detect(ctx context.Context, text string) (string, error) {
	f.detectCalls++
	return f.detectLang, f.detectErr
}

func (f *fakeLanguageService) Translate(ctx context.Context, text, from, to string) (string, error) {
	f.translateCall++
	f.lastFrom, f.lastTo = from, to
	return f.translated, f.translateErr
}

func TestNormalizeInCanonicalSkipsTranslation(t *testing.T) {
	svc := &fakeLanguageService{detectLang: "en"}
	n := NewNormalizer(nil, svc, svc, "en")

	text, lang, err := n.NormalizeIn(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "en", lang)
	assert.Zero(t, svc.translateCall)
}

func TestNormalizeInEmptyDetectionTreatedAsCanonical(t *testing.T) {
	svc := &fakeLanguageService{detectLang: ""}
	n := NewNormalizer(nil, svc, svc, "en")

	text, lang, err := n.NormalizeIn(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "hola", text)
	assert.Equal(t, "en", lang)
	assert.Zero(t, svc.translateCall)
}

func TestNormalizeInTranslatesForeignText(t *testing.T) {
	svc := &fakeLanguageService{detectLang: "es", translated: "hello"}
	n := NewNormalizer(nil, svc, svc, "en")

	text, lang, err := n.NormalizeIn(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "es", lang)
	assert.Equal(t, "es", svc.lastFrom)
	assert.Equal(t, "en", svc.lastTo)
}

func TestNormalizeInDetectionErrorPropagates(t *testing.T) {
	svc := &fakeLanguageService{detectErr: errors.New("service down")}
	n := NewNormalizer(nil, svc, svc, "en")

	_, _, err := n.NormalizeIn(context.Background(), "hola")
	assert.ErrorContains(t, err, "detect language")
}

func TestNormalizeOutShortCircuitsCanonicalTarget(t *testing.T) {
	svc := &fakeLanguageService{}
	n := NewNormalizer(nil, svc, svc, "en")

	out, err := n.NormalizeOut(context.Background(), "hello", "en")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Zero(t, svc.translateCall)
}

func TestNormalizeOutTranslatesBack(t *testing.T) {
	svc := &fakeLanguageService{translated: "hola"}
	n := NewNormalizer(nil, svc, svc, "en")

	out, err := n.NormalizeOut(context.Background(), "hello", "es")
	require.NoError(t, err)
	assert.Equal(t, "hola", out)
	assert.Equal(t, "en", svc.lastFrom)
	assert.Equal(t, "es", svc.lastTo)
}

func TestClientDetectPicksBestCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/detect", r.URL.Path)
		_, _ = w.Write([]byte(`[{"language":"it","confidence":0.4},{"language":"es","confidence":0.9}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0)
	lang, err := client.Detect(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "es", lang)
}

func TestClientTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/translate", r.URL.Path)
		_, _ = w.Write([]byte(`{"translatedText":"hello"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0)
	out, err := client.Translate(context.Background(), "hola", "es", "en")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestClientSurfacesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0)
	_, err := client.Detect(context.Background(), "hola")
	assert.ErrorContains(t, err, "status 502")
}
