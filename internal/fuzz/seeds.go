package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

var builtinSeeds = []string{
	"",
	"let a = 1;",
	"let a = 10; let b = a * (2 + 3) / -4;",
	`let s = "a\"b\\c"; s + s;`,
	"let t = true; !t;",
	"// comment only\n",
	"let a = (1 + 2",
	"let = 1;",
	"let a 1;",
	`let s = "open`,
	"18446744073709551616;",
	"let a = 1; let a = 2;",
	`let x = 1 + "one";`,
	"1 + @;",
	"((((((((((1))))))))));",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.tl файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".tl" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
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
