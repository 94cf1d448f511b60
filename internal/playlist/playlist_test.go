package playlist_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/grafov/m3u8"

	"harextract/internal/playlist"
	"harextract/internal/testsupport"
)

func set(names ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

func mediaManifest(t *testing.T, uris ...string) *playlist.Manifest {
	t.Helper()
	p, err := m3u8.NewMediaPlaylist(0, uint(len(uris)))
	if err != nil {
		t.Fatalf("new media playlist: %v", err)
	}
	for _, uri := range uris {
		if err := p.Append(uri, 6, ""); err != nil {
			t.Fatalf("append %q: %v", uri, err)
		}
	}
	p.Close()
	return playlist.FromMedia(p)
}

func TestParseAndReconcileRewritesToLocalNames(t *testing.T) {
	data := testsupport.Playlist(
		"https://cdn.example.com/vod/seg1.ts?token=abc",
		"https://cdn.example.com/vod/seg2.ts",
		"../media/seg3.ts#frag",
	)
	m, err := playlist.Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Kind() != playlist.KindMedia {
		t.Fatalf("expected media playlist, got %s", m.Kind())
	}

	missing := playlist.Reconcile(m, set("seg1.ts", "seg2.ts"))
	if !slices.Equal(missing, []string{"seg3.ts"}) {
		t.Fatalf("unexpected missing set %v", missing)
	}
	if got := m.URIs(); !slices.Equal(got, []string{"seg1.ts", "seg2.ts", "seg3.ts"}) {
		t.Fatalf("unexpected rewritten URIs %v", got)
	}

	encoded := string(m.Encode())
	for _, bad := range []string{"https://", "cdn.example.com", "token=", "../", "#frag"} {
		if strings.Contains(encoded, bad) {
			t.Fatalf("encoded manifest still contains %q:\n%s", bad, encoded)
		}
	}
	for _, name := range []string{"seg1.ts", "seg2.ts", "seg3.ts"} {
		if !strings.Contains(encoded, "\n"+name+"\n") {
			t.Fatalf("encoded manifest lacks %s:\n%s", name, encoded)
		}
	}

	again, err := playlist.Parse(m.Encode())
	if err != nil {
		t.Fatalf("re-parse encoded manifest: %v", err)
	}
	if got := again.URIs(); !slices.Equal(got, []string{"seg1.ts", "seg2.ts", "seg3.ts"}) {
		t.Fatalf("re-parsed URIs %v", got)
	}
}

func TestReconcileAllPresent(t *testing.T) {
	m := mediaManifest(t, "a.ts", "b.ts")
	if missing := playlist.Reconcile(m, set("a.ts", "b.ts", "extra.ts")); len(missing) != 0 {
		t.Fatalf("expected nothing missing, got %v", missing)
	}
}

func TestReconcileSkipsAbsentURIs(t *testing.T) {
	m := mediaManifest(t, "", "https://cdn.example.com/a.ts")

	missing := playlist.Reconcile(m, set())
	if !slices.Equal(missing, []string{"a.ts"}) {
		t.Fatalf("unexpected missing set %v", missing)
	}
	if got := m.URIs(); !slices.Equal(got, []string{"", "a.ts"}) {
		t.Fatalf("absent URI must stay absent, got %v", got)
	}
}

func TestReconcileSortsAndDeduplicates(t *testing.T) {
	m := mediaManifest(t, "c.ts", "https://x.example.com/a.ts", "c.ts", "/deep/path/b.ts")

	missing := playlist.Reconcile(m, set())
	if !slices.Equal(missing, []string{"a.ts", "b.ts", "c.ts"}) {
		t.Fatalf("unexpected missing set %v", missing)
	}
}

func TestReconcileUnnamedURIReportedVerbatim(t *testing.T) {
	m := mediaManifest(t, "https://cdn.example.com/", "a.ts")

	missing := playlist.Reconcile(m, set("a.ts"))
	if !slices.Equal(missing, []string{"https://cdn.example.com/"}) {
		t.Fatalf("unexpected missing set %v", missing)
	}
	if m.URIs()[0] != "https://cdn.example.com/" {
		t.Fatalf("unnamed URI must not be rewritten, got %q", m.URIs()[0])
	}
}

func TestReconcileKeepsColonsAndEscapes(t *testing.T) {
	m := mediaManifest(t,
		"clip:001.ts",
		"https://cdn.example.com/vod/clip:002.ts",
		"https://cdn.example.com/vod/a%2541.ts?sig=1",
	)

	missing := playlist.Reconcile(m, set("clip:001.ts", "clip:002.ts", "a%2541.ts"))
	if len(missing) != 0 {
		t.Fatalf("expected nothing missing, got %v", missing)
	}
	if got := m.URIs(); !slices.Equal(got, []string{"clip:001.ts", "clip:002.ts", "a%2541.ts"}) {
		t.Fatalf("unexpected rewritten URIs %v", got)
	}
}

func TestReconcileTwiceChangesNothing(t *testing.T) {
	m := mediaManifest(t,
		"https://cdn.example.com/vod/seg1.ts?token=abc",
		"clip:002.ts",
		"https://cdn.example.com/vod/a%2541.ts",
		"https://cdn.example.com/",
	)
	persisted := set("seg1.ts", "a%2541.ts")

	first := playlist.Reconcile(m, persisted)
	uris := m.URIs()
	encoded := string(m.Encode())

	second := playlist.Reconcile(m, persisted)
	if !slices.Equal(first, second) {
		t.Fatalf("missing set changed: %v then %v", first, second)
	}
	if !slices.Equal(uris, m.URIs()) {
		t.Fatalf("URIs changed: %v then %v", uris, m.URIs())
	}
	if again := string(m.Encode()); again != encoded {
		t.Fatalf("encoding changed:\n%s\nthen\n%s", encoded, again)
	}
	if want := []string{"clip:002.ts", "https://cdn.example.com/"}; !slices.Equal(first, want) {
		t.Fatalf("expected missing %v, got %v", want, first)
	}
}

func TestMissingDoesNotRewrite(t *testing.T) {
	m := mediaManifest(t, "https://cdn.example.com/vod/a.ts")

	missing := playlist.Missing(m, set("a.ts"))
	if !slices.Equal(missing, []string{"https://cdn.example.com/vod/a.ts"}) {
		t.Fatalf("unexpected missing set %v", missing)
	}
	if m.URIs()[0] != "https://cdn.example.com/vod/a.ts" {
		t.Fatalf("Missing must leave URIs alone, got %q", m.URIs()[0])
	}

	playlist.Rewrite(m)
	if missing := playlist.Missing(m, set("a.ts")); len(missing) != 0 {
		t.Fatalf("expected nothing missing after rewrite, got %v", missing)
	}
}

func TestReconcileMissingIsDeclaredMinusPersisted(t *testing.T) {
	declared := []string{"s0.ts", "s1.ts", "s2.ts", "s3.ts", "s4.ts", "s5.ts"}
	for mask := 0; mask < 1<<len(declared); mask++ {
		persisted := set("unrelated.ts")
		for i, name := range declared {
			if mask&(1<<i) != 0 {
				persisted[name] = struct{}{}
			}
		}
		missing := playlist.Reconcile(mediaManifest(t, declared...), persisted)

		if !slices.IsSorted(missing) {
			t.Fatalf("mask %b: missing not sorted: %v", mask, missing)
		}
		want := 0
		for i, name := range declared {
			if mask&(1<<i) == 0 {
				want++
				if !slices.Contains(missing, name) {
					t.Fatalf("mask %b: expected %s missing", mask, name)
				}
			}
		}
		if len(missing) != want {
			t.Fatalf("mask %b: expected %d missing, got %v", mask, want, missing)
		}
	}
}

func TestParseMasterPlaylist(t *testing.T) {
	data := "#EXTM3U\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=1280000,RESOLUTION=1280x720\n" +
		"https://cdn.example.com/720/index.m3u8\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=2560000,RESOLUTION=1920x1080\n" +
		"https://cdn.example.com/1080/index.m3u8\n"

	m, err := playlist.Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Kind() != playlist.KindMaster {
		t.Fatalf("expected master playlist, got %s", m.Kind())
	}
	if m.Variants() != 2 {
		t.Fatalf("expected 2 variants, got %d", m.Variants())
	}
	if len(m.Segments()) != 0 {
		t.Fatalf("master playlist must have no segments")
	}
	if missing := playlist.Reconcile(m, set()); len(missing) != 0 {
		t.Fatalf("expected nothing missing, got %v", missing)
	}
	if len(m.Encode()) == 0 {
		t.Fatal("expected master playlist to encode")
	}
}

func TestParseRejectsNonPlaylist(t *testing.T) {
	if _, err := playlist.Parse([]byte("<html>404 not found</html>")); err == nil {
		t.Fatal("expected error for non-playlist input")
	}
}
