package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"booking_reviews/internal/domain"
)

// readInput loads scraped reviews from path, or from stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]domain.RawReview, error) {
	r := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	return decodeReviews(r)
}

// decodeReviews accepts a JSON array of records or a stream of JSON objects
// (one per line). Numbers are kept as json.Number.
func decodeReviews(r io.Reader) ([]domain.RawReview, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()
	if first == '[' {
		var out []domain.RawReview
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("decode reviews: %w", err)
		}
		return out, nil
	}

	var out []domain.RawReview
	for {
		var rec domain.RawReview
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode review %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
