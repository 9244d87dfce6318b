package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ytdigest/internal/transcript"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVTT = `WEBVTT

00:00:00.000 --> 00:00:02.500
hello there

00:00:02.500 --> 00:00:05.000
hello there

00:00:05.000 --> 00:00:07.000
general kenobi
`

// fakeRunner writes the given files into the --output directory and
// returns output/err as yt-dlp would.
func fakeRunner(t *testing.T, files map[string]string, output string, err error) Runner {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		var outTmpl string
		for i, a := range args {
			if a == "--output" && i+1 < len(args) {
				outTmpl = args[i+1]
			}
		}
		require.NotEmpty(t, outTmpl)
		dir := filepath.Dir(outTmpl)
		for name, content := range files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
		}
		return []byte(output), err
	}
}

func TestFetch_ParsesWrittenSubtitles(t *testing.T) {
	src := New("", t.TempDir()).WithRunner(fakeRunner(t, map[string]string{
		"dQw4w9WgXcQ.en.vtt": sampleVTT,
	}, "", nil))

	segs, err := src.Fetch(context.Background(), "dQw4w9WgXcQ", "en")
	require.NoError(t, err)
	require.Len(t, segs, 2, "rolling duplicates are dropped")
	assert.Equal(t, "hello there", segs[0].Text)
	assert.Equal(t, "general kenobi", segs[1].Text)
	assert.Equal(t, 5*time.Second, segs[1].Start)
	assert.Equal(t, 2*time.Second, segs[1].Duration)
}

// recordingRunner keeps the args of every call and writes files only for
// the call whose write flag has an entry in filesByFlag.
type recordingRunner struct {
	t           *testing.T
	filesByFlag map[string]map[string]string
	calls       [][]string
}

func (r *recordingRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, args)
	dir := filepath.Dir(argAfter(args, "--output"))
	for _, flag := range []string{"--write-subs", "--write-auto-subs"} {
		if !contains(args, flag) {
			continue
		}
		for name, content := range r.filesByFlag[flag] {
			require.NoError(r.t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
		}
	}
	return nil, nil
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func contains(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func TestFetch_NeverRequestsTranslatedTracks(t *testing.T) {
	testCases := []struct {
		name       string
		lang       string
		wantManual string
		wantAuto   string
	}{
		{"language attempt", "ar", "ar", "ar-orig"},
		{"automatic attempt", "", "all,-live_chat", ".*-orig"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := &recordingRunner{t: t}
			_, err := New("", t.TempDir()).WithRunner(r.run).Fetch(context.Background(), "dQw4w9WgXcQ", tc.lang)
			require.Error(t, err)

			require.Len(t, r.calls, 2)
			assert.True(t, contains(r.calls[0], "--write-subs"))
			assert.False(t, contains(r.calls[0], "--write-auto-subs"))
			assert.Equal(t, tc.wantManual, argAfter(r.calls[0], "--sub-langs"))

			assert.True(t, contains(r.calls[1], "--write-auto-subs"))
			assert.False(t, contains(r.calls[1], "--write-subs"))
			assert.Equal(t, tc.wantAuto, argAfter(r.calls[1], "--sub-langs"))
		})
	}
}

func TestFetch_ManualTrackSkipsAutoRun(t *testing.T) {
	r := &recordingRunner{t: t, filesByFlag: map[string]map[string]string{
		"--write-subs": {"dQw4w9WgXcQ.en.vtt": "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nuploaded\n"},
	}}

	segs, err := New("", t.TempDir()).WithRunner(r.run).Fetch(context.Background(), "dQw4w9WgXcQ", "en")
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, "uploaded", segs[0].Text)
	assert.Len(t, r.calls, 1)
}

func TestFetch_OriginalAutoTrack(t *testing.T) {
	r := &recordingRunner{t: t, filesByFlag: map[string]map[string]string{
		"--write-auto-subs": {"dQw4w9WgXcQ.en-orig.vtt": "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nspoken\n"},
	}}

	segs, err := New("", t.TempDir()).WithRunner(r.run).Fetch(context.Background(), "dQw4w9WgXcQ", "en")
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, "spoken", segs[0].Text)
	assert.Len(t, r.calls, 2)
}

func TestFetch_PrefersOriginalTrack(t *testing.T) {
	src := New("", t.TempDir()).WithRunner(fakeRunner(t, map[string]string{
		"dQw4w9WgXcQ.af.vtt":      "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nafrikaans\n",
		"dQw4w9WgXcQ.en-orig.vtt": "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\noriginal\n",
	}, "", nil))

	segs, err := src.Fetch(context.Background(), "dQw4w9WgXcQ", "")
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, "original", segs[0].Text)
}

func TestFetch_Classification(t *testing.T) {
	testCases := []struct {
		name    string
		lang    string
		output  string
		runErr  error
		wantErr error
	}{
		{"missing language", "ar", "[info] Writing video subtitles", nil, transcript.ErrLanguageUnavailable},
		{"no subtitles at all", "", "", nil, transcript.ErrTranscriptsDisabled},
		{"no subtitles in language", "en", "[info] dQw4w9WgXcQ: There are no subtitles for the requested languages", nil, transcript.ErrLanguageUnavailable},
		{"video has no subtitles", "en", "[info] dQw4w9WgXcQ has no subtitles", nil, transcript.ErrTranscriptsDisabled},
		{"video gone", "en", "ERROR: [youtube] dQw4w9WgXcQ: Video unavailable", errors.New("exit status 1"), transcript.ErrVideoUnavailable},
		{"private", "en", "ERROR: [youtube] dQw4w9WgXcQ: Private video. Sign in", errors.New("exit status 1"), transcript.ErrVideoUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := New("", t.TempDir()).WithRunner(fakeRunner(t, nil, tc.output, tc.runErr))
			_, err := src.Fetch(context.Background(), "dQw4w9WgXcQ", tc.lang)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestFetch_UnknownFailure(t *testing.T) {
	src := New("", t.TempDir()).WithRunner(fakeRunner(t, nil, "ERROR: unable to download webpage", errors.New("exit status 1")))
	_, err := src.Fetch(context.Background(), "dQw4w9WgXcQ", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yt-dlp failed")
	assert.NotErrorIs(t, err, transcript.ErrLanguageUnavailable)
}

func TestParseVTT_StripsInlineTags(t *testing.T) {
	raw := "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\n<c>so</c> <c>this is</c> it\n"
	segs, err := ParseVTT([]byte(raw), "inline.vtt")
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, "so this is it", transcript.CleanSegment(segs[0].Text))
}
