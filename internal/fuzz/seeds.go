package fuzztests

import (
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var sourceSeeds = []string{
	"",
	"/// Fun facets shalld cause some erroris.\nfn x() {}\n",
	"//! crate docs\n//!\n//! more\n",
	"/** block\n * with stars\n */\nstruct S;\n",
	"/*! inner /* nested */ block */\n",
	"let s = \"/// not a comment\"; /// trailing\n",
	"/// ä 🦀 wide 中文\r\n/// crlf\r\n",
	"/* unterminated",
}

var markdownSeeds = []string{
	"# Title\n\nSome shalld `codez` text.\n",
	"- item one\n- item two\n  continued\n\n> quoted\n> text\n",
	"```rust\nlet x = 1;\n```\n\nAfter [link](http://x.y) the end.\n",
	"Line with trailing spaces  \nand a hard break.\n",
}

func addSeeds(f *testing.F, seeds []string, ext string) {
	for _, s := range seeds {
		f.Add([]byte(s))
	}
	// файлы из корня репозитория, если есть
	matches, err := filepath.Glob(filepath.Join("..", "..", "*"+ext))
	if err != nil {
		return
	}
	for _, path := range matches {
		// #nosec G304 -- path comes from a repository glob
		src, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f.Add(clampSeed(src))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
