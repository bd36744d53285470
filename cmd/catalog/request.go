package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"talent-catalog/internal/search"

	"gopkg.in/yaml.v3"
)

// readRequest decodes a candidate request from path, or from in when path
// is "-". YAML is accepted, and JSON with it.
func readRequest(path string, in io.Reader) (search.CandidateRequest, error) {
	var (
		b   []byte
		err error
	)
	switch strings.TrimSpace(path) {
	case "":
		return search.CandidateRequest{}, nil
	case "-":
		b, err = io.ReadAll(in)
	default:
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return search.CandidateRequest{}, fmt.Errorf("read request: %w", err)
	}

	var req search.CandidateRequest
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return search.CandidateRequest{}, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

func parseDateFlag(name, v string) (*search.Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	d, err := search.ParseDate(v)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &d, nil
}

func optionalID(v int64) *int64 {
	if v <= 0 {
		return nil
	}
	return &v
}
