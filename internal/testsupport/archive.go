package testsupport

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// Entry describes one archive record for HAR fixtures.
type Entry struct {
	URL      string
	MimeType string
	// Text is stored verbatim unless Body is set.
	Text string
	// Body, when non-nil, is stored base64 encoded.
	Body []byte
	// Encoding overrides the declared content encoding.
	Encoding string
	// NoContent drops the content object entirely.
	NoContent bool
	// NoText keeps the content object but omits its text member.
	NoText bool
}

type harDocument struct {
	Log harLog `json:"log"`
}

type harLog struct {
	Version string     `json:"version"`
	Creator harCreator `json:"creator"`
	Pages   []harPage  `json:"pages"`
	Entries []harEntry `json:"entries"`
}

type harCreator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type harPage struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type harInitiator struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

type harEntry struct {
	Initiator harInitiator `json:"_initiator"`
	Request   harRequest   `json:"request"`
	Response  harResponse  `json:"response"`
	Time      float64      `json:"time"`
}

type harRequest struct {
	Method  string      `json:"method"`
	URL     string      `json:"url"`
	Headers []harHeader `json:"headers"`
}

type harHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type harResponse struct {
	Status      int         `json:"status"`
	Headers     []harHeader `json:"headers"`
	Content     *harContent `json:"content,omitempty"`
	RedirectURL string      `json:"redirectURL"`
}

type harContent struct {
	Size     int     `json:"size"`
	MimeType string  `json:"mimeType"`
	Text     *string `json:"text,omitempty"`
	Encoding string  `json:"encoding,omitempty"`
}

// HAR renders entries as an indented HAR 1.2 document, the way browsers
// export captured sessions.
func HAR(t testing.TB, entries ...Entry) []byte {
	t.Helper()

	doc := harDocument{Log: harLog{
		Version: "1.2",
		Creator: harCreator{Name: "WebInspector", Version: "537.36"},
		Pages:   []harPage{{ID: "page_1", Title: "https://player.example.com/watch"}},
		Entries: make([]harEntry, 0, len(entries)),
	}}
	for _, e := range entries {
		entry := harEntry{
			Initiator: harInitiator{Type: "script", URL: "https://player.example.com/player.js"},
			Request: harRequest{
				Method:  "GET",
				URL:     e.URL,
				Headers: []harHeader{{Name: "Accept", Value: "*/*"}},
			},
			Response: harResponse{
				Status:  200,
				Headers: []harHeader{{Name: "Content-Type", Value: e.MimeType}},
			},
			Time: 12.5,
		}
		if !e.NoContent {
			content := &harContent{MimeType: e.MimeType, Encoding: e.Encoding}
			if !e.NoText {
				text := e.Text
				if e.Body != nil {
					text = base64.StdEncoding.EncodeToString(e.Body)
					if content.Encoding == "" {
						content.Encoding = "base64"
					}
					content.Size = len(e.Body)
				} else {
					content.Size = len(text)
				}
				content.Text = &text
			}
			entry.Response.Content = content
		}
		doc.Log.Entries = append(doc.Log.Entries, entry)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("marshal har: %v", err)
	}
	return append(data, '\n')
}

// WriteArchive writes a HAR fixture into dir and returns its path.
func WriteArchive(t testing.TB, dir string, entries ...Entry) string {
	t.Helper()

	path := filepath.Join(dir, "session.har")
	WriteFile(t, path, HAR(t, entries...))
	return path
}

// Playlist renders a VOD media playlist referencing the given segment URIs.
func Playlist(uris ...string) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n#EXT-X-VERSION:3\n#EXT-X-TARGETDURATION:6\n#EXT-X-MEDIA-SEQUENCE:0\n#EXT-X-PLAYLIST-TYPE:VOD\n")
	for _, uri := range uris {
		b.WriteString("#EXTINF:6.000000,\n")
		b.WriteString(uri)
		b.WriteByte('\n')
	}
	b.WriteString("#EXT-X-ENDLIST\n")
	return b.String()
}

// SegmentEntries returns base64 archive entries for the named segments served
// from base.
func SegmentEntries(base string, names ...string) []Entry {
	entries := make([]Entry, 0, len(names))
	for i, name := range names {
		entries = append(entries, Entry{
			URL:      fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), name),
			MimeType: "video/mp2t",
			Body:     SegmentPayload(byte(i+1), 4),
		})
	}
	return entries
}
