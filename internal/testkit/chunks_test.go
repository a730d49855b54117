package testkit

import (
	"strings"
	"testing"

	"lector/internal/chunk"
	"lector/internal/lexer"
	"lector/internal/source"
)

func TestCheckChunksAcceptsExtractedChunks(t *testing.T) {
	fs := source.NewFileSet()
	rs := fs.Get(fs.AddVirtual("lib.rs", []byte("/// one\n/// two\nfn x() {}\n/** a\n * b */\n")))
	lits, err := lexer.New(rs, lexer.DefaultOptions()).All()
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckChunks(rs, chunk.Build(rs.Path, lits)); err != nil {
		t.Fatal(err)
	}

	md := fs.Get(fs.AddVirtual("a.md", []byte("# Title\n\n- one\n  two\n\n> quote\n")))
	if err := CheckChunks(md, chunk.FromMarkdown(md)); err != nil {
		t.Fatal(err)
	}
}

func TestCheckChunkRejectsBrokenFragments(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("lib.rs", []byte("/// one\n/// two\n")))
	lits, err := lexer.New(f, lexer.DefaultOptions()).All()
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		mutate func(c *chunk.Chunk)
		want   string
	}{
		{"other file", func(c *chunk.Chunk) { c.File = 7 }, "points to file"},
		{"shifted span", func(c *chunk.Chunk) { c.Fragments[1].File.Start++; c.Fragments[1].File.End++ }, "differs from file"},
		{"short span", func(c *chunk.Chunk) { c.Fragments[0].File.End-- }, "covers"},
		{"overlap", func(c *chunk.Chunk) { c.Fragments[1].Range, c.Fragments[1].File = c.Fragments[0].Range, c.Fragments[0].File }, "overlaps"},
		{"outside", func(c *chunk.Chunk) { c.Fragments[1].Range.End = 99 }, "outside text"},
		{"empty", func(c *chunk.Chunk) { c.Fragments = nil }, "without fragments"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := chunk.Build(f.Path, lits)[0]
			c.Fragments = append([]chunk.Fragment(nil), c.Fragments...)
			tc.mutate(c)
			err := CheckChunk(f, c)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}
