package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	"harextract/internal/fileutil"
)

// Resource is one recovered response body.
type Resource struct {
	// URL is the entry URL exactly as recorded in the archive.
	URL string
	// Path is the path component of URL, used for classification.
	Path string
	Data []byte
}

// Name returns the bare file name the resource is staged under.
func (r Resource) Name() string {
	return fileutil.LocalName(r.URL)
}

type frameKind uint8

const (
	frameObject frameKind = iota
	frameArray
)

// frame is one open JSON container.
type frame struct {
	kind frameKind
	// name is the member key this container was opened under, empty for
	// array elements and the document root.
	name string
	// key is the member currently being read; wantKey is set when the next
	// string token in this object is a member name.
	key     string
	wantKey bool
	entry   bool
}

type entryState struct {
	depth  int
	url    string
	path   string
	hasURL bool
	wanted bool
}

// Extractor pulls resources out of an archive one at a time. It is a single
// pass over its reader and cannot be restarted.
//
// Entries are the objects held directly by the top-level array or by any
// array stored under an "entries" key. The entry URL is read from "url" in the
// entry or in its "request" object; the body from "content" in the entry or in
// its "response" object. A body is only decoded when the URL was seen first and
// the filter accepted its path.
type Extractor struct {
	dec    *json.Decoder
	filter Filter

	stack []frame
	entry *entryState

	current Resource
	err     error
	done    bool

	entries int
	skipped int
}

// NewExtractor returns an Extractor reading the archive document from r.
func NewExtractor(r io.Reader, filter Filter) *Extractor {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Extractor{dec: dec, filter: filter}
}

// Next advances to the next accepted resource. It returns false when the
// archive is exhausted or an error stopped the scan; Err distinguishes the two.
func (e *Extractor) Next() bool {
	if e.done {
		return false
	}
	for {
		tok, err := e.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) && len(e.stack) == 0 {
				e.done = true
				return false
			}
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			e.fail(e.parseError(err))
			return false
		}
		ready, err := e.step(tok)
		if err != nil {
			e.fail(err)
			return false
		}
		if ready {
			return true
		}
	}
}

// Resource returns the resource produced by the last successful Next.
func (e *Extractor) Resource() Resource {
	return e.current
}

// Err returns the error that stopped the scan, if any.
func (e *Extractor) Err() error {
	return e.err
}

// Entries returns the number of archive entries seen so far.
func (e *Extractor) Entries() int {
	return e.entries
}

// Skipped returns the number of bodies passed over because their entry was
// filtered out or had no URL before its content.
func (e *Extractor) Skipped() int {
	return e.skipped
}

func (e *Extractor) fail(err error) {
	e.err = err
	e.done = true
	e.current = Resource{}
}

func (e *Extractor) parseError(err error) error {
	return &StreamParseError{Offset: e.dec.InputOffset(), Err: err}
}

func (e *Extractor) step(tok json.Token) (bool, error) {
	if delim, ok := tok.(json.Delim); ok {
		switch delim {
		case '{', '[':
			e.open(delim)
		case '}', ']':
			e.close()
		}
		return false, nil
	}
	if top := e.top(); top != nil && top.kind == frameObject && top.wantKey {
		key, ok := tok.(string)
		if !ok {
			return false, e.parseError(fmt.Errorf("unexpected member name %v", tok))
		}
		top.wantKey = false
		top.key = key
		return e.member(key)
	}
	e.valueDone()
	return false, nil
}

func (e *Extractor) open(delim json.Delim) {
	f := frame{kind: frameArray}
	if delim == '{' {
		f.kind = frameObject
		f.wantKey = true
	}
	parent := e.top()
	if parent != nil && parent.kind == frameObject {
		f.name = parent.key
	}
	if f.kind == frameObject && e.entry == nil && parent != nil && parent.kind == frameArray {
		if len(e.stack) == 1 || parent.name == "entries" {
			f.entry = true
			e.entry = &entryState{depth: len(e.stack)}
			e.entries++
		}
	}
	e.stack = append(e.stack, f)
}

func (e *Extractor) close() {
	if len(e.stack) == 0 {
		return
	}
	closed := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	if closed.entry {
		e.entry = nil
	}
	e.valueDone()
}

// valueDone records that a complete member value or array element was read.
func (e *Extractor) valueDone() {
	if top := e.top(); top != nil && top.kind == frameObject {
		top.wantKey = true
	}
}

func (e *Extractor) top() *frame {
	if len(e.stack) == 0 {
		return nil
	}
	return &e.stack[len(e.stack)-1]
}

// atEntryMember reports whether the innermost object is the current entry or
// the entry's child object stored under nested.
func (e *Extractor) atEntryMember(nested string) bool {
	if e.entry == nil {
		return false
	}
	idx := len(e.stack) - 1
	switch idx {
	case e.entry.depth:
		return true
	case e.entry.depth + 1:
		f := e.stack[idx]
		return f.kind == frameObject && f.name == nested
	default:
		return false
	}
}

func (e *Extractor) member(key string) (bool, error) {
	switch {
	case key == "url" && e.atEntryMember("request"):
		tok, err := e.dec.Token()
		if err != nil {
			return false, e.parseError(err)
		}
		raw, ok := tok.(string)
		if !ok {
			return e.step(tok)
		}
		e.classify(raw)
		e.valueDone()
		return false, nil

	case key == "content" && e.atEntryMember("response"):
		if !e.entry.wanted {
			e.skipped++
			if err := e.skipValue(); err != nil {
				return false, err
			}
			e.valueDone()
			return false, nil
		}
		var body Body
		if err := e.dec.Decode(&body); err != nil {
			return false, e.parseError(fmt.Errorf("content of %s: %w", e.entry.url, err))
		}
		e.valueDone()
		data, err := Decode(body)
		if err != nil {
			return false, fmt.Errorf("entry %s: %w", e.entry.url, err)
		}
		e.current = Resource{URL: e.entry.url, Path: e.entry.path, Data: data}
		e.entry.wanted = false
		return true, nil
	}
	return false, nil
}

func (e *Extractor) classify(raw string) {
	e.entry.url = raw
	e.entry.path = urlPath(raw)
	e.entry.hasURL = true
	e.entry.wanted = e.filter == nil || e.filter(e.entry.path)
}

// skipValue consumes the next value without building it.
func (e *Extractor) skipValue() error {
	depth := 0
	for {
		tok, err := e.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return e.parseError(err)
		}
		if delim, ok := tok.(json.Delim); ok {
			switch delim {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
		if depth == 0 {
			return nil
		}
	}
}

func urlPath(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		return u.Path
	}
	return raw
}
