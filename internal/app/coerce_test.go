package app

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestCoerceDate(t *testing.T) {
	want := time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC)
	ok := []any{
		"03-10-2023 12:00:00",
		"3-10-2023 23:59:59",
		" 03-10-2023 00:00:00 ",
		time.Date(2023, 3, 10, 18, 4, 5, 0, time.UTC),
	}
	for _, in := range ok {
		got := coerceDate(in, DefaultPostDateLayout)
		if got == nil || !got.Equal(want) {
			t.Fatalf("coerceDate(%v) = %v, want %v", in, got, want)
		}
	}

	bad := []any{nil, "", "2023-03-10", "03-10-2023", "13-40-2023 12:00:00", "yesterday", 20230310, []string{"x"}}
	for _, in := range bad {
		if got := coerceDate(in, DefaultPostDateLayout); got != nil {
			t.Fatalf("coerceDate(%#v) = %v, want nil", in, got)
		}
	}
}

func TestCoerceInt(t *testing.T) {
	cases := []struct {
		in   any
		want *int
	}{
		{"1 night", ip(1)},
		{"2 nights", ip(2)},
		{"stayed 14 nights in 2023", ip(14)},
		{3, ip(3)},
		{int64(7), ip(7)},
		{4.9, ip(4)},
		{-2.5, ip(-2)},
		{json.Number("5"), ip(5)},
		{json.Number("5.7"), ip(5)},
		{0, ip(0)},
		{nil, nil},
		{"", nil},
		{"no digits", nil},
		{true, nil},
		{math.NaN(), nil},
		{math.Inf(1), nil},
		{1e12, nil},
		{"99999999999999999999", nil},
		{"99999999999 nights", nil},
		{"2147483647 nights", ip(math.MaxInt32)},
		{map[string]any{}, nil},
	}
	for _, tc := range cases {
		assertIntPtr(t, "coerceInt", tc.in, coerceInt(tc.in), tc.want)
	}
}

func TestCoerceCounter(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{nil, 0},
		{"", 0},
		{"n/a", 0},
		{[]int{1}, 0},
		{"3 people", 3},
		{12, 12},
		{json.Number("4"), 4},
		{2.0, 2},
		{"99999999999", 0},
		{"helpful: 99999999999", 0},
	}
	for _, tc := range cases {
		if got := coerceCounter(tc.in, 0); got != tc.want {
			t.Fatalf("coerceCounter(%#v) = %d, want %d", tc.in, got, tc.want)
		}
	}
	if got := coerceCounter("bad", 5); got != 5 {
		t.Fatalf("coerceCounter default = %d, want 5", got)
	}
}

func TestCoerceRating(t *testing.T) {
	cases := []struct {
		in   any
		want *int
	}{
		{"9.2", ip(9)},
		{"8,5", ip(8)},
		{" 10 ", ip(10)},
		{8.5, ip(8)},
		{7, ip(7)},
		{json.Number("6.9"), ip(6)},
		{nil, nil},
		{"", nil},
		{"excellent", nil},
		{"9.2 / 10", nil},
		{"NaN", nil},
		{false, nil},
	}
	for _, tc := range cases {
		assertIntPtr(t, "coerceRating", tc.in, coerceRating(tc.in), tc.want)
	}
}

func ip(n int) *int { return &n }

func assertIntPtr(t *testing.T, fn string, in any, got, want *int) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil || *got != *want:
		t.Fatalf("%s(%#v) = %v, want %v", fn, in, fmtPtr(got), fmtPtr(want))
	}
}

func fmtPtr(p *int) any {
	if p == nil {
		return "nil"
	}
	return *p
}
