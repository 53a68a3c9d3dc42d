// Package manifest models composite build manifests: JSON documents
// with an optional "references" list plus passthrough members
// (compilerOptions and friends) that must round-trip unchanged.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/refwork/refctl/internal/tree"
)

var ErrMalformed = errors.New("manifest: malformed document")

const referencesKey = "references"

// ReferenceEntry is one pointer inside a manifest, relative to the
// manifest's own directory. It may name a directory (implying that
// directory's default manifest) or a manifest file directly.
type ReferenceEntry struct {
	Path string `json:"path"`
}

// Document is one parsed manifest. Top-level key order and the raw
// bytes of every non-reference member are retained so unrelated content
// survives re-encoding byte for byte.
type Document struct {
	keys    []string
	members map[string]json.RawMessage
	refs    []ReferenceEntry
	hasRefs bool
}

// Parse decodes a manifest, keeping passthrough members raw.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformed)
	}

	doc := &Document{members: make(map[string]json.RawMessage)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		key := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: member %q: %v", ErrMalformed, key, err)
		}
		if _, dup := doc.members[key]; dup || (key == referencesKey && doc.hasRefs) {
			return nil, fmt.Errorf("%w: duplicate member %q", ErrMalformed, key)
		}
		doc.keys = append(doc.keys, key)
		if key == referencesKey {
			if err := json.Unmarshal(raw, &doc.refs); err != nil {
				return nil, fmt.Errorf("%w: references: %v", ErrMalformed, err)
			}
			doc.hasRefs = true
			continue
		}
		doc.members[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc, nil
}

// References returns a copy of the reference list in document order.
func (d *Document) References() []ReferenceEntry {
	out := make([]ReferenceEntry, len(d.refs))
	copy(out, d.refs)
	return out
}

// HasReferences reports whether the document carries a references
// member at all.
func (d *Document) HasReferences() bool {
	return d.hasRefs
}

// SetReferences replaces the reference list. A document that never had
// a references member gains one at the end of its key order, unless the
// new list is empty too.
func (d *Document) SetReferences(refs []ReferenceEntry) {
	if !d.hasRefs {
		if len(refs) == 0 {
			return
		}
		d.keys = append(d.keys, referencesKey)
		d.hasRefs = true
	}
	d.refs = make([]ReferenceEntry, len(refs))
	copy(d.refs, refs)
}

// Encode renders the document: original key order, raw passthrough
// member bytes, two-space indent for the references list.
func (d *Document) Encode() []byte {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, key := range d.keys {
		fmt.Fprintf(&buf, "  %s: ", mustMarshal(key))
		if key == referencesKey {
			buf.Write(encodeRefs(d.refs))
		} else {
			buf.Write(d.members[key])
		}
		if i < len(d.keys)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}

func encodeRefs(refs []ReferenceEntry) []byte {
	if len(refs) == 0 {
		return []byte("[]")
	}
	var buf bytes.Buffer
	buf.WriteString("[\n")
	for i, ref := range refs {
		fmt.Fprintf(&buf, "    { \"path\": %s }", mustMarshal(ref.Path))
		if i < len(refs)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("  ]")
	return buf.Bytes()
}

func mustMarshal(s string) []byte {
	out, err := json.Marshal(s)
	if err != nil {
		// strings always marshal
		panic(err)
	}
	return out
}

// Load reads and parses the manifest at p.
func Load(t tree.Tree, p string) (*Document, error) {
	data, err := t.Read(p)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return doc, nil
}

// Save writes the encoded document to p.
func Save(t tree.Tree, p string, doc *Document) error {
	return t.Write(p, doc.Encode())
}

// Normalize maps a reference path to its canonical form: cleaned, with
// a leading "./" and a trailing default-manifest filename stripped, so
// "./util", "util" and "util/<defaultName>" compare equal.
func Normalize(refPath, defaultName string) string {
	p := path.Clean(strings.TrimSpace(refPath))
	if path.Base(p) == defaultName {
		p = path.Dir(p)
	}
	return p
}

// FormatRefPath renders a manifest-relative path the way manifests
// conventionally spell it: "./"-prefixed unless it already walks up.
func FormatRefPath(rel string) string {
	if rel == "." || strings.HasPrefix(rel, "../") || rel == ".." || strings.HasPrefix(rel, "./") {
		return rel
	}
	return "./" + rel
}
