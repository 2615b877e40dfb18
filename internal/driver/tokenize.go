package driver

import (
	"context"
)

// Tokenize lexes the file at path. The token list keeps whitespace,
// comments and the final EOF.
func Tokenize(ctx context.Context, path string, opts Options) (*Result, error) {
	fs, file, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	return run(ctx, fs, file, StageLex, opts), nil
}
