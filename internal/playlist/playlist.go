package playlist

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/grafov/m3u8"
)

// Kind distinguishes media playlists from master (variant) playlists.
type Kind string

const (
	KindMedia  Kind = "media"
	KindMaster Kind = "master"
)

// ErrUnknownPlaylist reports a document the decoder could not classify.
var ErrUnknownPlaylist = errors.New("unrecognized playlist type")

// Manifest is a decoded HLS playlist whose segment URIs can be rewritten in
// place and re-encoded.
type Manifest struct {
	kind   Kind
	media  *m3u8.MediaPlaylist
	master *m3u8.MasterPlaylist
}

// Parse decodes an HLS playlist. Decoding is lenient about unknown tags.
func Parse(data []byte) (*Manifest, error) {
	p, listType, err := m3u8.DecodeFrom(bytes.NewReader(data), false)
	if err != nil {
		return nil, fmt.Errorf("decode playlist: %w", err)
	}
	switch listType {
	case m3u8.MEDIA:
		media, ok := p.(*m3u8.MediaPlaylist)
		if !ok {
			return nil, ErrUnknownPlaylist
		}
		return FromMedia(media), nil
	case m3u8.MASTER:
		master, ok := p.(*m3u8.MasterPlaylist)
		if !ok {
			return nil, ErrUnknownPlaylist
		}
		return &Manifest{kind: KindMaster, master: master}, nil
	default:
		return nil, ErrUnknownPlaylist
	}
}

// FromMedia wraps an already built media playlist.
func FromMedia(p *m3u8.MediaPlaylist) *Manifest {
	return &Manifest{kind: KindMedia, media: p}
}

// Kind reports whether the manifest is a media or master playlist.
func (m *Manifest) Kind() Kind {
	return m.kind
}

// Segments returns the media segments in playlist order. Master playlists
// have none.
func (m *Manifest) Segments() []*m3u8.MediaSegment {
	if m == nil || m.media == nil {
		return nil
	}
	out := make([]*m3u8.MediaSegment, 0, m.media.Count())
	for _, seg := range m.media.Segments {
		if seg != nil {
			out = append(out, seg)
		}
	}
	return out
}

// URIs returns the segment URIs in playlist order, including empty ones.
func (m *Manifest) URIs() []string {
	segs := m.Segments()
	out := make([]string, len(segs))
	for i, seg := range segs {
		out[i] = seg.URI
	}
	return out
}

// Variants returns the number of variant streams of a master playlist.
func (m *Manifest) Variants() int {
	if m == nil || m.master == nil {
		return 0
	}
	return len(m.master.Variants)
}

// Encode serializes the manifest including any rewritten URIs.
func (m *Manifest) Encode() []byte {
	switch {
	case m.media != nil:
		m.media.ResetCache()
		return bytes.Clone(m.media.Encode().Bytes())
	case m.master != nil:
		m.master.ResetCache()
		return bytes.Clone(m.master.Encode().Bytes())
	default:
		return nil
	}
}
