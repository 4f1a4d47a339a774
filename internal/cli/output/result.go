package output

import (
	"bytes"
	"encoding/json"
)

// Result kinds.
const (
	KindCreate = "create"
	KindRead   = "read"
)

// Result is the outcome for one command-line argument.
type Result struct {
	Input string `json:"input"`
	Kind  string `json:"kind"`
	Token string `json:"token,omitempty"`
	Valid *bool  `json:"valid,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// Created builds the result of signing input into tok.
func Created(input, tok string) Result {
	return Result{Input: input, Kind: KindCreate, Token: tok}
}

// Read builds the result of reading tok.
func Read(tok string, data any, valid bool) Result {
	r := Result{Input: tok, Kind: KindRead, Token: tok, Valid: &valid}
	if valid {
		r.Data = data
	}
	return r
}

// Results is the ordered output of one invocation.
type Results []Result

// Lines renders one line per result: the token for creates, the compact
// JSON payload for valid reads and "false" for invalid reads.
func (rs Results) Lines() ([]string, error) {
	lines := make([]string, 0, len(rs))
	for _, r := range rs {
		switch {
		case r.Kind == KindCreate:
			lines = append(lines, r.Token)
		case r.Valid == nil || !*r.Valid:
			lines = append(lines, "false")
		default:
			line, err := compactJSON(r.Data)
			if err != nil {
				return nil, err
			}
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
