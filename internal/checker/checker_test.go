package checker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/patrickmn/go-cache"

	"lector/internal/chunk"
	"lector/internal/lexer"
	"lector/internal/source"
)

func chunkOf(t *testing.T, src string) *chunk.Chunk {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("lib.rs", []byte(src)))
	lits, err := lexer.New(f, lexer.DefaultOptions()).All()
	if err != nil {
		t.Fatalf("lexer: %v", err)
	}
	chunks := chunk.Build(f.Path, lits)
	if len(chunks) == 0 {
		t.Fatal("no chunks")
	}
	return chunks[0]
}

func texts(c *chunk.Chunk, s []Suggestion) []string {
	out := make([]string, len(s))
	for i, sg := range s {
		out[i] = c.Sub(sg.Range)
	}
	return out
}

func TestTokenize(t *testing.T) {
	toks := tokenize("(Grüße), \"world\"… a.b\n?!")
	want := []string{"Grüße", "world", "a.b"}
	if len(toks) != len(want) {
		t.Fatalf("tokens %v", toks)
	}
	for i, w := range want {
		if toks[i].Text != w {
			t.Errorf("token %d = %q, want %q", i, toks[i].Text, w)
		}
	}
	if toks[0].Range != (source.Range{Start: 1, End: 6}) {
		t.Fatalf("first range %v", toks[0].Range)
	}
}

func TestWordlistFlagsUnknownWords(t *testing.T) {
	c := chunkOf(t, "/// Fun facets shalld cause some erroris.\n")
	dict := NewDictionary("fun", "facets", "shall", "shell", "cause", "some", "errors")
	wl, err := NewWordlist(dict, WordlistConfig{MaxSuggestions: 3})
	if err != nil {
		t.Fatal(err)
	}
	got, err := wl.Check(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if words := texts(c, got); strings.Join(words, ",") != "shalld,erroris" {
		t.Fatalf("flagged %v", words)
	}
	if got[0].Range != (source.Range{Start: 11, End: 17}) {
		t.Fatalf("range %v", got[0].Range)
	}
	if len(got[0].Replacements) == 0 || got[0].Replacements[0] != "shall" {
		t.Fatalf("replacements %v", got[0].Replacements)
	}
	if got[1].Replacements[0] != "errors" {
		t.Fatalf("replacements %v", got[1].Replacements)
	}
}

func TestWordlistSkipsMarkupAndCode(t *testing.T) {
	c := chunkOf(t, "/// Use `shalld` and [text](http://xx.yy/zzq) or snake_case, HTTP, 42x.\n")
	wl, err := NewWordlist(NewDictionary("use", "and", "text", "or"), WordlistConfig{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := wl.Check(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("unexpected findings %v", texts(c, got))
	}
}

func TestDictionaryFoldsCase(t *testing.T) {
	d := NewDictionary("Straße", "shall")
	for _, w := range []string{"straße", "STRASSE", "Shall"} {
		if !d.Contains(w) {
			t.Errorf("Contains(%q) = false", w)
		}
	}
	if got := d.Suggest("Shalld", 1); len(got) != 1 || got[0] != "Shall" {
		t.Fatalf("Suggest = %v", got)
	}
	if got := d.Suggest("SHALLD", 1); len(got) != 1 || got[0] != "SHALL" {
		t.Fatalf("Suggest = %v", got)
	}
}

func TestEditDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"shalld", "shall", 1},
		{"teh", "the", 1},
		{"kitten", "sitting", 3},
		{"same", "same", 0},
	}
	for _, tc := range cases {
		if got := editDistance([]rune(tc.a), []rune(tc.b)); got != tc.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestLoadHunspellDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.dic")
	if err := os.WriteFile(path, []byte("3\nshall/S\nfun\n# comment\nfacets/M\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	d, err := LoadDictionary([]string{path}, []string{"extra"})
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 4 || !d.Contains("shall") || !d.Contains("facets") || d.Contains("3") {
		t.Fatalf("dictionary has %d words", d.Len())
	}
	if _, err := LoadDictionary([]string{filepath.Join(t.TempDir(), "missing.dic")}, nil); err == nil {
		t.Fatal("expected error for missing dictionary")
	}
}

func TestWordlistQuirks(t *testing.T) {
	cases := []struct {
		name string
		cfg  WordlistConfig
		dict []string
		text string
		want string
	}{
		{"transform capture", WordlistConfig{Transform: []string{`^([a-z]+)ish$`}}, []string{"blue"}, "blueish bluish", "blu"},
		{"transform accept", WordlistConfig{Transform: []string{`^(?:TODO|FIXME)$`}}, nil, "FIXME", ""},
		{"compound parts", WordlistConfig{}, []string{"well", "known"}, "well-known", ""},
		{"concatenated off", WordlistConfig{}, []string{"email"}, "e-mail", "e-mail"},
		{"concatenated on", WordlistConfig{AllowConcatenated: true}, []string{"email"}, "e-mail", ""},
		{"dashed on", WordlistConfig{AllowDashed: true}, []string{"e-mail"}, "email", ""},
		{"emoji", WordlistConfig{AllowEmojis: true}, nil, "🦀 ⅔", ""},
		{"possessive", WordlistConfig{}, []string{"crab"}, "crab's", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := chunkOf(t, "/// "+tc.text+"\n")
			wl, err := NewWordlist(NewDictionary(tc.dict...), tc.cfg)
			if err != nil {
				t.Fatal(err)
			}
			got, err := wl.Check(context.Background(), c)
			if err != nil {
				t.Fatal(err)
			}
			if strings.Join(texts(c, got), ",") != tc.want {
				t.Fatalf("flagged %q, want %q", texts(c, got), tc.want)
			}
		})
	}
}

func TestRepeat(t *testing.T) {
	c := chunkOf(t, "/// The the cat sat\n/// sat on `x` x and end. end\n")
	got, err := Repeat{}.Check(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(texts(c, got), "|") != " the|\nsat" {
		t.Fatalf("flagged %q", texts(c, got))
	}
	if got[0].Replacements[0] != "" || got[0].Detector != KindRepeat {
		t.Fatalf("suggestion %+v", got[0])
	}
}

func TestDummyFlagsEverything(t *testing.T) {
	c := chunkOf(t, "/// a b\n")
	got, err := Dummy{}.Check(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].Replacements[0] != "replacement_1" {
		t.Fatalf("got %+v", got)
	}
}

func TestValidate(t *testing.T) {
	c := chunkOf(t, "/// abc\n")
	for _, r := range []source.Range{{Start: 1, End: 1}, {Start: 2, End: 9}, {Start: 3, End: 1}} {
		if err := Validate(c, Suggestion{Range: r}); !errors.Is(err, ErrInvalidSuggestion) {
			t.Errorf("Validate(%v) = %v", r, err)
		}
	}
	if err := Validate(c, Suggestion{Range: source.Range{Start: 0, End: 3}}); err != nil {
		t.Fatal(err)
	}
}

type countingChecker struct {
	calls atomic.Int64
}

func (c *countingChecker) Check(ctx context.Context, ch *chunk.Chunk) ([]Suggestion, error) {
	c.calls.Add(1)
	return Dummy{}.Check(ctx, ch)
}

func TestCachedUsesMemoryAndDisk(t *testing.T) {
	disk, err := OpenDiskCache(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	c := chunkOf(t, "/// one two\n")
	inner := &countingChecker{}

	first := NewCached("dummy", inner, nil, disk)
	for range 2 {
		got, err := first.Check(context.Background(), c)
		if err != nil || len(got) != 2 {
			t.Fatalf("Check = %v, %v", got, err)
		}
	}
	if inner.calls.Load() != 1 {
		t.Fatalf("inner called %d times", inner.calls.Load())
	}

	// новая память, тот же диск
	second := NewCached("dummy", inner, cache.New(cache.NoExpiration, 0), disk)
	got, err := second.Check(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if inner.calls.Load() != 1 || len(got) != 2 || got[0].Replacements[0] != "replacement_0" {
		t.Fatalf("disk cache missed: calls=%d got=%+v", inner.calls.Load(), got)
	}
	if hits, misses, _ := second.Stats(); hits != 1 || misses != 0 {
		t.Fatalf("stats hits=%d misses=%d", hits, misses)
	}

	other := NewCached("other", inner, nil, disk)
	if _, err := other.Check(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	if inner.calls.Load() != 2 {
		t.Fatal("checker name must be part of the key")
	}
}

func TestContextRunsEnabledCheckers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = []Kind{KindRepeat, KindWordlist, KindRepeat}
	cfg.Wordlist.Words = []string{"a", "cat"}
	cfg.Cache.Disabled = true
	x, err := NewContext(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = x.Close() }()
	if k := x.Kinds(); len(k) != 2 || k[0] != KindRepeat || k[1] != KindWordlist {
		t.Fatalf("kinds %v", k)
	}
	c := chunkOf(t, "/// a dgo cat cat\n")
	got, err := x.Check(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(texts(c, got), "|") != "dgo| cat" {
		t.Fatalf("flagged %q", texts(c, got))
	}
	if err := x.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := x.Check(context.Background(), c); err == nil {
		t.Fatal("closed context must refuse work")
	}
}

func TestCheckerErrorsAreWrapped(t *testing.T) {
	cfg := Config{Enabled: []Kind{KindDummy}, Cache: CacheConfig{Disabled: true}}
	x, err := NewContext(cfg)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = x.Check(ctx, chunkOf(t, "/// a\n"))
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Checker != KindDummy || !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindWordlist, KindRepeat, KindDummy} {
		got, err := ParseKind(strings.ToUpper(k.String()))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k, got, err)
		}
	}
	if _, err := ParseKind("grammar"); err == nil {
		t.Fatal("expected error")
	}
}

func TestContextClearDropsDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := chunkOf(t, "/// one two\n")
	run := func(drop bool) (hits, misses int64) {
		x, err := NewContext(Config{Enabled: []Kind{KindDummy}, Cache: CacheConfig{Dir: dir, Clear: drop}})
		if err != nil {
			t.Fatal(err)
		}
		defer func() { _ = x.Close() }()
		if _, err := x.Check(context.Background(), c); err != nil {
			t.Fatal(err)
		}
		return x.CacheStats()
	}
	if _, misses := run(false); misses != 1 {
		t.Fatalf("first run misses = %d", misses)
	}
	if hits, _ := run(false); hits != 1 {
		t.Fatalf("second run hits = %d", hits)
	}
	if hits, misses := run(true); hits != 0 || misses != 1 {
		t.Fatalf("cleared run hits=%d misses=%d", hits, misses)
	}
}
