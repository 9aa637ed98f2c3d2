package dictionary

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/japaniel/podvocab/pkg/vocab"
)

const wordnetJSON = `{
  "@context": "https://globalwordnet.github.io/schemas/wn-json-context-1.0.json",
  "@graph": [{
    "entry": [
      {"@id": "oewn-zephyr-n", "lemma": {"writtenForm": "Zephyr"}, "sense": [{"@id": "s1", "synset": "oewn-1-n"}]},
      {"@id": "oewn-dune-n", "lemma": {"writtenForm": "dune"}, "sense": [{"@id": "s2", "synset": "oewn-2-n"}, {"@id": "s3", "synset": "oewn-3-n"}]},
      {"@id": "oewn-quixotic-a", "lemma": {"writtenForm": "quixotic"}, "sense": [{"@id": "s4", "synset": "oewn-4-a"}]}
    ],
    "synset": [
      {"@id": "oewn-1-n", "definition": ["a slight wind"]},
      {"@id": "oewn-2-n", "definition": [{"gloss": "a ridge of sand created by the wind"}]},
      {"@id": "oewn-3-n", "definition": ["something else"]},
      {"@id": "oewn-4-a", "definition": "not sensible about practical matters"}
    ]
  }]
}`

const jmdictJSON = `{
  "words": [
    {"id": "1", "kanji": [{"text": "犬", "common": true}], "kana": [{"text": "いぬ", "common": true}],
     "sense": [{"gloss": [{"text": "dog", "lang": "eng"}, {"text": "canine"}], "partOfSpeech": ["n"]}]},
    {"id": "2", "kanji": [], "kana": [{"text": "テスト", "common": true}],
     "sense": [{"gloss": [{"text": "test"}], "partOfSpeech": ["n"]}]}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWordNet(t *testing.T) {
	ix, err := LoadWordNet(writeFile(t, "wn.json", wordnetJSON))
	if err != nil {
		t.Fatalf("LoadWordNet: %v", err)
	}
	cases := map[string]string{
		"zephyr":   "a slight wind",
		"dune":     "a ridge of sand created by the wind",
		"quixotic": "not sensible about practical matters",
		"unknown":  "",
	}
	for word, want := range cases {
		if got := ix.Define(word); got != want {
			t.Errorf("Define(%q) = %q, want %q", word, got, want)
		}
	}
	if ix.Len() != 3 {
		t.Errorf("expected 3 lemmas, got %d", ix.Len())
	}
}

func TestLoadWordNetInvalid(t *testing.T) {
	if _, err := LoadWordNet(writeFile(t, "bad.json", "not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestJMdictIndex(t *testing.T) {
	entries, err := LoadJMdictSimplified(writeFile(t, "jm.json", jmdictJSON))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ix := NewIndex(entries)
	if got := ix.Define("犬"); got != "dog; canine" {
		t.Errorf("Define(犬) = %q", got)
	}
	if got := ix.Lookup("犬", "犬", "イヌ"); len(got) != 1 {
		t.Errorf("expected katakana reading to match, got %d", len(got))
	}
	if got := ix.Lookup("犬", "犬", "ネコ"); len(got) != 0 {
		t.Errorf("expected reading mismatch to filter, got %d", len(got))
	}
	if got := ix.Define("テスト"); got != "test" {
		t.Errorf("Define(テスト) = %q", got)
	}
	js, err := FormatDefinitions(ix.Lookup("犬", "", ""))
	if err != nil || js != `[{"senses":["dog","canine"],"pos":["n"]}]` {
		t.Errorf("FormatDefinitions = %s, %v", js, err)
	}
	if ToHiragana("テスト") != "てすと" {
		t.Errorf("ToHiragana failed")
	}
}

func TestLoadPicksLoader(t *testing.T) {
	d, err := Load(writeFile(t, "wn.json", wordnetJSON), "en")
	if err != nil || d.Define("zephyr") == "" {
		t.Fatalf("english load: %v", err)
	}
	d, err = Load(writeFile(t, "jm.json", jmdictJSON), "ja")
	if err != nil || d.Define("犬") == "" {
		t.Fatalf("japanese load: %v", err)
	}
	d, err = Load(filepath.Join(t.TempDir(), "missing.json"), "en")
	if err != nil || d != nil {
		t.Fatalf("missing file should yield nil definer, got %v, %v", d, err)
	}
	if _, err := Load(writeFile(t, "x.json", "{}"), "fr"); err == nil {
		t.Fatal("expected unsupported language error")
	}
}

func TestAnnotate(t *testing.T) {
	ix, err := LoadWordNet(writeFile(t, "wn.json", wordnetJSON))
	if err != nil {
		t.Fatal(err)
	}
	cands := []vocab.Candidate{{Word: "zephyr"}, {Word: "dune", Definition: "kept"}, {Word: "nothing"}}
	if n := Annotate(ix, cands); n != 1 {
		t.Fatalf("expected 1 definition added, got %d", n)
	}
	if cands[0].Definition != "a slight wind" || cands[1].Definition != "kept" || cands[2].Definition != "" {
		t.Fatalf("unexpected definitions %+v", cands)
	}
	if Annotate(nil, cands) != 0 {
		t.Fatal("nil definer should add nothing")
	}
}

func TestEnsureDictionaryLocalCache(t *testing.T) {
	path := writeFile(t, "jm.json", jmdictJSON)
	d := NewDownloader(nil)
	d.APIBase = "http://127.0.0.1:1" // must not be contacted
	if err := d.EnsureDictionary(context.Background(), path, JMdictRelease); err != nil {
		t.Fatalf("EnsureDictionary with local file: %v", err)
	}
}

func TestEnsureDictionaryDownloads(t *testing.T) {
	var archive bytes.Buffer
	gz := gzip.NewWriter(&archive)
	tw := tar.NewWriter(gz)
	body := []byte(jmdictJSON)
	if err := tw.WriteHeader(&tar.Header{Name: "jmdict-eng-common-3.6.1.json", Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(body); err != nil {
		t.Fatal(err)
	}
	tw.Close()
	gz.Close()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/scriptin/jmdict-simplified/releases/latest":
			fmt.Fprintf(w, `{"assets":[{"name":"jmdict-eng-3.6.1.json.tgz","browser_download_url":"%[1]s/wrong"},
				{"name":"jmdict-eng-common-3.6.1.json.tgz","browser_download_url":"%[1]s/asset.json.tgz"}]}`, srv.URL)
		case "/asset.json.tgz":
			w.Write(archive.Bytes())
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	d := NewDownloader(nil)
	d.Client = srv.Client()
	d.APIBase = srv.URL
	dest := filepath.Join(t.TempDir(), "dict", "jmdict.json")
	if err := d.EnsureDictionary(context.Background(), dest, JMdictRelease); err != nil {
		t.Fatalf("EnsureDictionary: %v", err)
	}
	entries, err := LoadJMdictSimplified(dest)
	if err != nil || len(entries) != 2 {
		t.Fatalf("downloaded dictionary unreadable: %d entries, %v", len(entries), err)
	}
}
