package lsp

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestReadWriteMessage(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"jsonrpc":"2.0","method":"initialized"}`)
	if err := writeMessage(&buf, payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := readMessage(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch: %q", got)
	}
}

func TestReadMessageIgnoresOtherHeaders(t *testing.T) {
	raw := "Content-Type: application/vscode-jsonrpc; charset=utf-8\r\ncontent-length: 2\r\n\r\n{}"
	got, err := readMessage(bufio.NewReader(strings.NewReader(raw)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "{}" {
		t.Fatalf("unexpected payload %q", got)
	}
}

func TestReadMessageErrors(t *testing.T) {
	cases := map[string]string{
		"missing length": "X-Foo: 1\r\n\r\n{}",
		"bad length":     "Content-Length: abc\r\n\r\n{}",
		"too large":      "Content-Length: 99999999999\r\n\r\n",
		"short body":     "Content-Length: 10\r\n\r\n{}",
	}
	for name, raw := range cases {
		if _, err := readMessage(bufio.NewReader(strings.NewReader(raw))); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
