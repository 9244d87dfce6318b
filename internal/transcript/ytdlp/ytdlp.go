// Package ytdlp fetches captions by shelling out to yt-dlp and parsing the
// WebVTT files it writes.
package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"ytdigest/internal/transcript"
	"ytdigest/internal/util"
	"ytdigest/internal/videoid"

	"github.com/asticode/go-astisub"
	log "github.com/sirupsen/logrus"
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Source implements transcript.Source with the yt-dlp binary.
type Source struct {
	binary  string
	workDir string
	run     Runner
}

// New creates a yt-dlp source. An empty binary defaults to "yt-dlp" on PATH
// and an empty workDir to the OS temp dir.
func New(binary, workDir string) *Source {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Source{binary: binary, workDir: workDir, run: execRunner}
}

// WithRunner swaps the command runner.
func (s *Source) WithRunner(r Runner) *Source {
	s.run = r
	return s
}

// Name returns the source name.
func (s *Source) Name() string { return "ytdlp" }

// Binary returns the configured executable.
func (s *Source) Binary() string { return s.binary }

// Fetch downloads the subtitles for videoID in lang ("" for any language).
// Uploaded subtitles are tried first, then the auto-generated track of the
// spoken language. yt-dlp labels YouTube's machine translations with the
// target language, so plain auto tracks are never requested.
func (s *Source) Fetch(ctx context.Context, videoID, lang string) ([]transcript.Segment, error) {
	dir, err := os.MkdirTemp(s.workDir, "ytdigest-"+videoID+"-")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	manualLangs, autoLangs := lang, lang+"-orig"
	if lang == "" {
		manualLangs, autoLangs = "all,-live_chat", ".*-orig"
	}

	var output []byte
	for _, attempt := range []struct{ flag, langs string }{
		{"--write-subs", manualLangs},
		{"--write-auto-subs", autoLangs},
	} {
		files, out, err := s.download(ctx, dir, videoID, attempt.flag, attempt.langs)
		if err != nil {
			return nil, err
		}
		if len(files) > 0 {
			return readFile(pickFile(files))
		}
		output = append(output, out...)
	}

	if lang == "" || bytes.Contains(output, []byte(noSubtitlesMarker)) {
		return nil, transcript.ErrTranscriptsDisabled
	}
	return nil, fmt.Errorf("%w: %s", transcript.ErrLanguageUnavailable, lang)
}

// download runs yt-dlp once and returns the subtitle files it wrote.
func (s *Source) download(ctx context.Context, dir, videoID, flag, subLangs string) ([]string, []byte, error) {
	args := []string{
		"--skip-download",
		flag,
		"--sub-format", "vtt",
		"--sub-langs", subLangs,
		"--no-warnings",
		"--output", filepath.Join(dir, "%(id)s"),
		"--", videoid.WatchURL(videoID),
	}
	log.WithField("video_id", videoID).Debugf("running %s %s", s.binary, strings.Join(args, " "))

	output, runErr := s.run(ctx, s.binary, args...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, nil, ctxErr
	}
	if err := classifyOutput(output); err != nil {
		return nil, nil, err
	}

	files, _ := filepath.Glob(filepath.Join(dir, "*.vtt"))
	if len(files) == 0 && runErr != nil {
		return nil, nil, fmt.Errorf("yt-dlp failed: %w: %s", runErr, strings.TrimSpace(string(output)))
	}
	return files, output, nil
}

func readFile(path string) ([]transcript.Segment, error) {
	log.WithField("file", filepath.Base(path)).Debug("parsing subtitles")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subtitles: %w", err)
	}
	return ParseVTT(raw, filepath.Base(path))
}

// noSubtitlesMarker is printed when the video has no tracks of either kind.
const noSubtitlesMarker = "has no subtitles"

var unavailableMarkers = []string{"Video unavailable", "Private video", "This video has been removed", "This video is not available"}

func classifyOutput(output []byte) error {
	text := string(output)
	for _, m := range unavailableMarkers {
		if strings.Contains(text, m) {
			return fmt.Errorf("%w: %s", transcript.ErrVideoUnavailable, m)
		}
	}
	return nil
}

// pickFile prefers the original-language auto track, then the first file
// in name order.
func pickFile(files []string) string {
	sort.Strings(files)
	for _, f := range files {
		if strings.HasSuffix(f, "-orig.vtt") {
			return f
		}
	}
	return files[0]
}

var inlineTagRE = regexp.MustCompile(`<[^>]*>`)

// ParseVTT converts WebVTT subtitles into segments. Inline timing tags are
// stripped and the rolling duplicates of auto captions are dropped.
func ParseVTT(raw []byte, src string) ([]transcript.Segment, error) {
	content, err := util.CleanSubtitleBytes(raw, src)
	if err != nil {
		return nil, err
	}
	subs, err := astisub.ReadFromWebVTT(bytes.NewReader([]byte(content)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src, err)
	}

	segments := make([]transcript.Segment, 0, len(subs.Items))
	var previous string
	for _, item := range subs.Items {
		for _, line := range item.Lines {
			var sb strings.Builder
			for _, li := range line.Items {
				sb.WriteString(li.Text)
				sb.WriteByte(' ')
			}
			text := strings.TrimSpace(inlineTagRE.ReplaceAllString(sb.String(), ""))
			if text == "" || text == previous {
				continue
			}
			previous = text
			segments = append(segments, transcript.Segment{
				Text:     text,
				Start:    item.StartAt,
				Duration: item.EndAt - item.StartAt,
			})
		}
	}
	return segments, nil
}

var _ transcript.Source = (*Source)(nil)
