package youtube

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNoTranscript indicates no transcript exists in any of the
	// requested languages.
	ErrNoTranscript = errors.New("no transcript in requested languages")

	// ErrTranscriptsDisabled indicates the video exposes no transcript
	// tracks at all.
	ErrTranscriptsDisabled = errors.New("transcripts disabled for video")
)

const defaultTimedTextURL = "https://video.google.com/timedtext"

// TranscriptClient fetches video transcripts from the timedtext
// endpoint.
type TranscriptClient struct {
	httpClient *http.Client
	baseURL    string
	languages  []string
}

// NewTranscriptClient creates a transcript fetcher trying the given
// languages in preference order.
func NewTranscriptClient(languages []string) *TranscriptClient {
	if len(languages) == 0 {
		languages = []string{"ru", "en"}
	}
	return &TranscriptClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultTimedTextURL,
		languages:  languages,
	}
}

// trackList is the timedtext track listing document.
type trackList struct {
	XMLName xml.Name `xml:"transcript_list"`
	Tracks  []track  `xml:"track"`
}

type track struct {
	LangCode string `xml:"lang_code,attr"`
	Name     string `xml:"name,attr"`
}

// transcriptDoc is one transcript track's caption lines.
type transcriptDoc struct {
	XMLName xml.Name `xml:"transcript"`
	Lines   []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

// Fetch returns the video's transcript as plain text, trying the
// configured languages in order.
func (c *TranscriptClient) Fetch(ctx context.Context, videoID string) (string, error) {
	tracks, err := c.listTracks(ctx, videoID)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "", fmt.Errorf("%w: %s", ErrTranscriptsDisabled, videoID)
	}

	for _, lang := range c.languages {
		for _, tr := range tracks {
			if !matchesLanguage(tr.LangCode, lang) {
				continue
			}
			text, err := c.fetchTrack(ctx, videoID, tr)
			if err != nil {
				return "", err
			}
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: %s (have %s)", ErrNoTranscript, videoID, trackLanguages(tracks))
}

// matchesLanguage compares track codes loosely: "en" matches "en-US".
func matchesLanguage(trackCode, want string) bool {
	return trackCode == want || strings.HasPrefix(trackCode, want+"-")
}

func trackLanguages(tracks []track) string {
	codes := make([]string, len(tracks))
	for i, tr := range tracks {
		codes[i] = tr.LangCode
	}
	return strings.Join(codes, ",")
}

func (c *TranscriptClient) listTracks(ctx context.Context, videoID string) ([]track, error) {
	query := url.Values{"type": {"list"}, "v": {videoID}}
	body, err := c.get(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}

	var list trackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parsing track list for %s: %w", videoID, err)
	}
	return list.Tracks, nil
}

func (c *TranscriptClient) fetchTrack(ctx context.Context, videoID string, tr track) (string, error) {
	query := url.Values{"v": {videoID}, "lang": {tr.LangCode}}
	if tr.Name != "" {
		query.Set("name", tr.Name)
	}
	body, err := c.get(ctx, query)
	if err != nil {
		return "", err
	}

	var doc transcriptDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("parsing transcript for %s: %w", videoID, err)
	}

	lines := make([]string, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		text := strings.TrimSpace(html.UnescapeString(line.Text))
		if text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, " "), nil
}

func (c *TranscriptClient) get(ctx context.Context, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching timedtext: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
