package transcript

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fake Source ---
type fakeSource struct {
	tracks  map[string][]Segment // keyed by language, "" for auto
	errs    map[string]error
	autoErr error
	calls   []string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(ctx context.Context, videoID, lang string) ([]Segment, error) {
	f.calls = append(f.calls, lang)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[lang]; ok {
		return nil, err
	}
	if segs, ok := f.tracks[lang]; ok {
		return segs, nil
	}
	if lang == "" && f.autoErr != nil {
		return nil, f.autoErr
	}
	return nil, ErrLanguageUnavailable
}

// --- End Fake Source ---

func segs(texts ...string) []Segment {
	out := make([]Segment, len(texts))
	for i, t := range texts {
		out[i] = Segment{Text: t}
	}
	return out
}

func TestAssembler_FirstLanguageWins(t *testing.T) {
	src := &fakeSource{tracks: map[string][]Segment{
		"ar": segs("مرحبا بكم", "[موسيقى]", "في القناة"),
		"en": segs("hello"),
	}}
	a := NewAssembler(src, nil)

	got, err := a.Assemble(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "ar", got.Language)
	assert.Equal(t, "مرحبا بكم في القناة", got.FullText)
	assert.Equal(t, 4, got.TotalWords)
	assert.Equal(t, []string{"ar"}, src.calls)
}

func TestAssembler_FallsThroughLanguagesInOrder(t *testing.T) {
	src := &fakeSource{tracks: map[string][]Segment{
		"de": segs("Guten Tag"),
	}}
	a := NewAssembler(src, nil)

	got, err := a.Assemble(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "de", got.Language)
	assert.Equal(t, []string{"ar", "en", "fr", "de"}, src.calls)
}

func TestAssembler_AutoFallback(t *testing.T) {
	src := &fakeSource{tracks: map[string][]Segment{
		"": segs("  bonjour   tout  ", "le monde"),
	}}
	a := NewAssembler(src, []string{"ar", "en"})

	got, err := a.Assemble(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, AutoLanguage, got.Language)
	assert.Equal(t, "bonjour tout le monde", got.FullText)
	assert.Equal(t, []string{"ar", "en", ""}, src.calls)
}

func TestAssembler_NoTranscriptClassification(t *testing.T) {
	testCases := []struct {
		name    string
		autoErr error
	}{
		{"disabled sentinel", ErrTranscriptsDisabled},
		{"language sentinel", ErrLanguageUnavailable},
		{"disabled message", errors.New("Transcript is disabled on this video")},
		{"could not get message", errors.New("Could not get transcripts for video")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := &fakeSource{autoErr: tc.autoErr, errs: map[string]error{"": tc.autoErr}}
			_, err := NewAssembler(src, []string{"en"}).Assemble(context.Background(), "dQw4w9WgXcQ")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNoTranscript)
		})
	}
}

func TestAssembler_UnknownErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset by peer")
	src := &fakeSource{errs: map[string]error{"": boom}}

	_, err := NewAssembler(src, []string{"en"}).Assemble(context.Background(), "dQw4w9WgXcQ")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNoTranscript)
}

func TestAssembler_VideoUnavailableStopsEarly(t *testing.T) {
	src := &fakeSource{errs: map[string]error{"ar": ErrVideoUnavailable}}

	_, err := NewAssembler(src, nil).Assemble(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrVideoUnavailable)
	assert.Equal(t, []string{"ar"}, src.calls)
}

func TestAssembler_DisabledStopsEarly(t *testing.T) {
	src := &fakeSource{errs: map[string]error{"ar": ErrTranscriptsDisabled}}

	_, err := NewAssembler(src, nil).Assemble(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrNoTranscript)
	assert.ErrorIs(t, err, ErrTranscriptsDisabled)
	assert.Equal(t, []string{"ar"}, src.calls)
}

// listingSource resolves its tracks once per List call.
type listingSource struct {
	fakeSource
	listErr error
	lists   int
}

func (l *listingSource) List(ctx context.Context, videoID string) (Tracks, error) {
	l.lists++
	if l.listErr != nil {
		return nil, l.listErr
	}
	return listedTracks{&l.fakeSource, videoID}, nil
}

type listedTracks struct {
	src     *fakeSource
	videoID string
}

func (t listedTracks) Fetch(ctx context.Context, lang string) ([]Segment, error) {
	return t.src.Fetch(ctx, t.videoID, lang)
}

func TestAssembler_ListsTracksOnce(t *testing.T) {
	src := &listingSource{fakeSource: fakeSource{tracks: map[string][]Segment{"": segs("hola")}}}

	got, err := NewAssembler(src, nil).Assemble(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, AutoLanguage, got.Language)
	assert.Equal(t, 1, src.lists)
	assert.Len(t, src.calls, len(DefaultLanguages)+1)
}

func TestAssembler_ListErrors(t *testing.T) {
	testCases := []struct {
		name    string
		listErr error
		want    error
	}{
		{"disabled", ErrTranscriptsDisabled, ErrNoTranscript},
		{"video gone", ErrVideoUnavailable, ErrVideoUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := &listingSource{listErr: tc.listErr}
			_, err := NewAssembler(src, nil).Assemble(context.Background(), "dQw4w9WgXcQ")
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 1, src.lists)
			assert.Empty(t, src.calls)
		})
	}
}

func TestAssembler_EmptyAndMissingSegments(t *testing.T) {
	src := &fakeSource{tracks: map[string][]Segment{"ar": {}}}
	_, err := NewAssembler(src, nil).Assemble(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrNoTranscript)

	src = &fakeSource{tracks: map[string][]Segment{"ar": segs("[Music]", "(applause)", "&#39;")}}
	_, err = NewAssembler(src, nil).Assemble(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestAssembler_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &fakeSource{tracks: map[string][]Segment{"en": segs("hello")}}

	_, err := NewAssembler(src, nil).Assemble(ctx, "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, src.calls, 1, "no further languages are tried after cancellation")
}

func TestCleanSegment(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"[موسيقى] مرحباً", "مرحباً"},
		{"", ""},
		{"hello    there \n world", "hello there world"},
		{"it&#39;s (laughs) fine", "it s fine"},
		{"Tom &amp; Jerry", "Tom Jerry"},
		{"[Music] [Applause]", ""},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, CleanSegment(tc.in), "input %q", tc.in)
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   "))
	assert.Equal(t, 3, CountWords(" كلمة  واحدة فقط "))
}

func TestClipToWords(t *testing.T) {
	t.Run("under budget is unchanged", func(t *testing.T) {
		got := ClipToWords("كلمة واحدة فقط", 500)
		assert.Equal(t, "كلمة واحدة فقط", got.Text)
		assert.Equal(t, 3, got.WordCount)
	})

	t.Run("long text is cut to budget", func(t *testing.T) {
		long := strings.Repeat("كلمة ", 600)
		got := ClipToWords(long, 500)
		assert.Equal(t, 500, got.WordCount)
	})

	t.Run("ends on late sentence mark", func(t *testing.T) {
		got := ClipToWords("a b c d e f g h. i j k", 10)
		assert.Equal(t, "a b c d e f g h.", got.Text)
		assert.Equal(t, 8, got.WordCount)
	})

	t.Run("arabic question mark counts as boundary", func(t *testing.T) {
		got := ClipToWords("a b c d e f g h؟ i j k", 10)
		assert.Equal(t, "a b c d e f g h؟", got.Text)
	})

	t.Run("early sentence mark is ignored", func(t *testing.T) {
		got := ClipToWords("a. b c d e f g h i j k", 10)
		assert.Equal(t, "a. b c d e f g h i", got.Text)
		assert.Equal(t, 10, got.WordCount)
	})

	t.Run("idempotent", func(t *testing.T) {
		text := "first sentence here. " + strings.Repeat("word ", 40) + "end. more words follow"
		once := ClipToWords(text, 30)
		twice := ClipToWords(once.Text, 30)
		assert.Equal(t, once, twice)
		assert.LessOrEqual(t, once.WordCount, 30)
	})
}
