package source

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// Normalize strips a UTF-8 BOM, folds CRLF into LF and converts the text to NFC.
// The returned flags describe which of those rewrites happened.
func Normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	content, hadNFC := normalizeNFC(content)
	if hadNFC {
		flags |= FileNormalizedNFC
	}
	return content, flags
}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i++
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

// normalizeNFC composes combining sequences so that one visible character
// advances the cursor column once.
func normalizeNFC(content []byte) ([]byte, bool) {
	if norm.NFC.IsNormal(content) {
		return content, false
	}
	return norm.NFC.Bytes(content), true
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/16)
	for i, b := range content {
		if b != '\n' {
			continue
		}
		off, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("line offset overflow: %w", err))
		}
		out = append(out, off)
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// бинпоиск: количество переводов строки строго до off
	line, _ := slices.BinarySearch(lineIdx, off)
	if line == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	startOff := lineIdx[line-1] + 1
	lineNum, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return LineCol{Line: lineNum, Col: off - startOff + 1}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the normalized absolute form of p.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns p relative to baseDir. Paths that escape baseDir
// fall back to their absolute form.
func RelativePath(p, baseDir string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(abs), nil
	}
	return normalizePath(rel), nil
}

// BaseName returns the last element of p.
func BaseName(p string) string {
	return filepath.Base(p)
}
