package watchpage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ytdigest/internal/netutil"
	"ytdigest/internal/transcript"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timedTextXML = `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
	`<text start="0.5" dur="2.1">[Music] hello &amp;#39;world&amp;#39;</text>` +
	`<text start="2.6" dur="1.4">second line</text></transcript>`

func watchPage(player string) string {
	return `<!DOCTYPE html><html><head><title>video</title></head><body>` +
		`<script>var other = 1;</script>` +
		`<script>var ytInitialPlayerResponse = ` + player + `;var meta = document.createElement('meta');</script>` +
		`</body></html>`
}

func newTestServer(t *testing.T, player func(base string) string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("v") == "goneXXXXXXX" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, watchPage(player(srv.URL)))
	})
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, timedTextXML)
	})
	t.Cleanup(srv.Close)
	return srv
}

func tracksPlayer(base string) string {
	return fmt.Sprintf(`{"playabilityStatus":{"status":"OK"},"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[`+
		`{"baseUrl":"%[1]s/timedtext?lang=en&kind=asr","languageCode":"en","kind":"asr"},`+
		`{"baseUrl":"%[1]s/timedtext?lang=en","languageCode":"en"},`+
		`{"baseUrl":"%[1]s/timedtext?lang=fr","languageCode":"fr-CA"}]}}}`, base)
}

func TestFetch_SelectsTrackAndParsesSegments(t *testing.T) {
	srv := newTestServer(t, tracksPlayer)
	src := New(Options{BaseURL: srv.URL})

	segs, err := src.Fetch(context.Background(), "dQw4w9WgXcQ", "en")
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, "[Music] hello &#39;world&#39;", segs[0].Text)
	assert.Equal(t, 500*time.Millisecond, segs[0].Start)
	assert.Equal(t, "hello world second line", transcript.JoinSegments(segs))
}

func TestFetch_LanguageUnavailable(t *testing.T) {
	srv := newTestServer(t, tracksPlayer)
	src := New(Options{BaseURL: srv.URL})

	_, err := src.Fetch(context.Background(), "dQw4w9WgXcQ", "ar")
	assert.ErrorIs(t, err, transcript.ErrLanguageUnavailable)

	segs, err := src.Fetch(context.Background(), "dQw4w9WgXcQ", "fr")
	require.NoError(t, err, "regional variants match the base language")
	assert.NotEmpty(t, segs)
}

func TestFetch_NoCaptions(t *testing.T) {
	srv := newTestServer(t, func(string) string { return `{"playabilityStatus":{"status":"OK"}}` })
	src := New(Options{BaseURL: srv.URL})

	_, err := src.Fetch(context.Background(), "dQw4w9WgXcQ", "")
	assert.ErrorIs(t, err, transcript.ErrTranscriptsDisabled)
}

func TestFetch_VideoUnavailable(t *testing.T) {
	srv := newTestServer(t, func(string) string {
		return `{"playabilityStatus":{"status":"ERROR","reason":"Video unavailable"}}`
	})
	src := New(Options{BaseURL: srv.URL, Retry: &netutil.SimpleRetryStrategy{MaxAttempts: 0}})

	_, err := src.Fetch(context.Background(), "dQw4w9WgXcQ", "en")
	assert.ErrorIs(t, err, transcript.ErrVideoUnavailable)

	_, err = src.Fetch(context.Background(), "goneXXXXXXX", "en")
	assert.ErrorIs(t, err, transcript.ErrVideoUnavailable)
}

func TestAssemble_LoadsWatchPageOnce(t *testing.T) {
	testCases := []struct {
		name    string
		player  func(base string) string
		wantErr error
	}{
		{"captions disabled", func(string) string { return `{"playabilityStatus":{"status":"OK"}}` }, transcript.ErrNoTranscript},
		{"only french", tracksPlayer, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var pages atomic.Int32
			mux := http.NewServeMux()
			srv := httptest.NewServer(mux)
			t.Cleanup(srv.Close)
			mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
				pages.Add(1)
				fmt.Fprint(w, watchPage(tc.player(srv.URL)))
			})
			mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, timedTextXML)
			})

			a := transcript.NewAssembler(New(Options{BaseURL: srv.URL}), []string{"ar", "de", "fr"})
			got, err := a.Assemble(context.Background(), "dQw4w9WgXcQ")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "fr", got.Language)
			}
			assert.Equal(t, int32(1), pages.Load())
		})
	}
}

func TestPickTrack(t *testing.T) {
	tracks := []captionTrack{
		{LanguageCode: "en", Kind: "asr", BaseURL: "asr"},
		{LanguageCode: "de", BaseURL: "manual-de"},
		{LanguageCode: "en", BaseURL: "manual-en"},
	}

	got, ok := pickTrack(tracks, "en")
	require.True(t, ok)
	assert.Equal(t, "manual-en", got.BaseURL)

	got, ok = pickTrack(tracks, "")
	require.True(t, ok)
	assert.Equal(t, "manual-de", got.BaseURL)

	_, ok = pickTrack(tracks, "ar")
	assert.False(t, ok)
}

func TestExtractPlayerResponse_Missing(t *testing.T) {
	_, err := extractPlayerResponse([]byte(`<html><body><script>var x = 1;</script></body></html>`))
	assert.Error(t, err)
}
