package driver

import (
	"context"
)

// Parse lexes and parses the file at path.
func Parse(ctx context.Context, path string, opts Options) (*Result, error) {
	fs, file, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	return run(ctx, fs, file, StageParse, opts), nil
}
