package manifest

import (
	"strings"
	"testing"

	"github.com/refwork/refctl/internal/testutil/testlog"
	"github.com/refwork/refctl/internal/tree"
)

const apiManifest = `{
  "extends": "../../tsconfig.base.json",
  "compilerOptions": {
    "rootDir": "src",
    "outDir": "dist"
  },
  "references": [
    { "path": "../old-lib" },
    { "path": "./tsconfig.spec.json" }
  ]
}`

func TestParseKeepsPassthroughAndOrder(t *testing.T) {
	testlog.Start(t)
	doc, err := Parse([]byte(apiManifest))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	refs := doc.References()
	if len(refs) != 2 || refs[0].Path != "../old-lib" || refs[1].Path != "./tsconfig.spec.json" {
		t.Fatalf("unexpected references: %+v", refs)
	}

	out := string(doc.Encode())
	extendsAt := strings.Index(out, `"extends"`)
	optionsAt := strings.Index(out, `"compilerOptions"`)
	refsAt := strings.Index(out, `"references"`)
	if extendsAt < 0 || optionsAt < 0 || refsAt < 0 {
		t.Fatalf("missing members in output:\n%s", out)
	}
	if !(extendsAt < optionsAt && optionsAt < refsAt) {
		t.Fatalf("key order not preserved:\n%s", out)
	}
	if !strings.Contains(out, `"rootDir": "src"`) {
		t.Fatalf("compilerOptions content lost:\n%s", out)
	}
}

func TestReEncodeIsStable(t *testing.T) {
	testlog.Start(t)
	doc, err := Parse([]byte(apiManifest))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	once := doc.Encode()
	again, err := Parse(once)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if string(again.Encode()) != string(once) {
		t.Fatalf("encode not stable:\n%s\nvs\n%s", once, again.Encode())
	}
}

func TestSetReferences(t *testing.T) {
	testlog.Start(t)

	t.Run("replaces existing list", func(t *testing.T) {
		doc, err := Parse([]byte(apiManifest))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		doc.SetReferences([]ReferenceEntry{{Path: "../util"}})
		out := string(doc.Encode())
		if strings.Contains(out, "../old-lib") {
			t.Fatalf("stale reference survived:\n%s", out)
		}
		if !strings.Contains(out, `{ "path": "../util" }`) {
			t.Fatalf("new reference missing:\n%s", out)
		}
	})

	t.Run("adds member when absent", func(t *testing.T) {
		doc, err := Parse([]byte(`{ "compilerOptions": {} }`))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if doc.HasReferences() {
			t.Fatalf("expected no references member")
		}
		doc.SetReferences([]ReferenceEntry{{Path: "../util"}})
		out := string(doc.Encode())
		if !strings.Contains(out, `"references"`) || !strings.Contains(out, "../util") {
			t.Fatalf("references member not added:\n%s", out)
		}
	})

	t.Run("empty list on absent member is a no-op", func(t *testing.T) {
		doc, err := Parse([]byte(`{ "compilerOptions": {} }`))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		doc.SetReferences(nil)
		if strings.Contains(string(doc.Encode()), `"references"`) {
			t.Fatalf("unexpected references member:\n%s", doc.Encode())
		}
	})

	t.Run("existing list may become empty", func(t *testing.T) {
		doc, err := Parse([]byte(apiManifest))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		doc.SetReferences(nil)
		if !strings.Contains(string(doc.Encode()), `"references": []`) {
			t.Fatalf("expected empty references list:\n%s", doc.Encode())
		}
	})
}

func TestParseRejectsMalformed(t *testing.T) {
	testlog.Start(t)
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{nope`},
		{name: "top level array", body: `[]`},
		{name: "duplicate member", body: `{"a": 1, "a": 2}`},
		{name: "references not a list", body: `{"references": {}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.body)); err == nil {
				t.Fatalf("expected parse error for %q", tc.body)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	testlog.Start(t)
	tests := []struct {
		in   string
		want string
	}{
		{in: "./util", want: "util"},
		{in: "util", want: "util"},
		{in: "util/", want: "util"},
		{in: "util/tsconfig.json", want: "util"},
		{in: "./util/tsconfig.json", want: "util"},
		{in: "../util", want: "../util"},
		{in: "./tsconfig.base.json", want: "tsconfig.base.json"},
		{in: "tsconfig.json", want: "."},
	}
	for _, tc := range tests {
		if got := Normalize(tc.in, "tsconfig.json"); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatRefPath(t *testing.T) {
	testlog.Start(t)
	tests := []struct {
		in   string
		want string
	}{
		{in: "../util", want: "../util"},
		{in: "packages/api", want: "./packages/api"},
		{in: "./packages/api", want: "./packages/api"},
		{in: ".", want: "."},
	}
	for _, tc := range tests {
		if got := FormatRefPath(tc.in); got != tc.want {
			t.Fatalf("FormatRefPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	testlog.Start(t)
	ws := tree.NewMem()
	if err := ws.Write("packages/api/tsconfig.json", []byte(apiManifest)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	doc, err := Load(ws, "packages/api/tsconfig.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := Save(ws, "packages/api/tsconfig.json", doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := ws.Read("packages/api/tsconfig.json")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	reparsed, err := Parse(data)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if got := reparsed.References(); len(got) != 2 {
		t.Fatalf("references lost in round trip: %+v", got)
	}
}
