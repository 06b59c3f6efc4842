package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTranscriptTestServer(t *testing.T, listBody string, tracks map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("type") == "list" {
			_, _ = w.Write([]byte(listBody))
			return
		}
		body, ok := tracks[q.Get("lang")]
		require.True(t, ok, "unexpected lang %q", q.Get("lang"))
		_, _ = w.Write([]byte(body))
	}))
}

func TestTranscriptClient_Fetch(t *testing.T) {
	srv := newTranscriptTestServer(t,
		`<transcript_list><track lang_code="en" name=""/><track lang_code="ru" name=""/></transcript_list>`,
		map[string]string{
			"ru": `<transcript>` +
				`<text start="0" dur="2">Привет, мир</text>` +
				`<text start="2" dur="3">и ещё &amp; строка</text>` +
				`</transcript>`,
		})
	defer srv.Close()

	tc := NewTranscriptClient([]string{"ru", "en"})
	tc.baseURL = srv.URL

	text, err := tc.Fetch(context.Background(), "vid123")
	require.NoError(t, err)
	assert.Equal(t, "Привет, мир и ещё & строка", text)
}

func TestTranscriptClient_LanguageFallback(t *testing.T) {
	srv := newTranscriptTestServer(t,
		`<transcript_list><track lang_code="en-US" name=""/></transcript_list>`,
		map[string]string{
			"en-US": `<transcript><text start="0" dur="1">hello there</text></transcript>`,
		})
	defer srv.Close()

	// "en" matches the regional variant "en-US".
	tc := NewTranscriptClient([]string{"ru", "en"})
	tc.baseURL = srv.URL

	text, err := tc.Fetch(context.Background(), "vid123")
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
}

func TestTranscriptClient_NoMatchingLanguage(t *testing.T) {
	srv := newTranscriptTestServer(t,
		`<transcript_list><track lang_code="de" name=""/></transcript_list>`,
		nil)
	defer srv.Close()

	tc := NewTranscriptClient([]string{"ru", "en"})
	tc.baseURL = srv.URL

	_, err := tc.Fetch(context.Background(), "vid123")
	assert.ErrorIs(t, err, ErrNoTranscript)
}

func TestTranscriptClient_TranscriptsDisabled(t *testing.T) {
	srv := newTranscriptTestServer(t, "", nil)
	defer srv.Close()

	tc := NewTranscriptClient(nil)
	tc.baseURL = srv.URL

	_, err := tc.Fetch(context.Background(), "vid123")
	assert.ErrorIs(t, err, ErrTranscriptsDisabled)
}

func TestMatchesLanguage(t *testing.T) {
	assert.True(t, matchesLanguage("en", "en"))
	assert.True(t, matchesLanguage("en-GB", "en"))
	assert.False(t, matchesLanguage("eng", "en"))
	assert.False(t, matchesLanguage("ru", "en"))
}
