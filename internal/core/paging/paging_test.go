package paging

import (
	"math"
	"net/url"
	"testing"
)

func TestRequest_Defaults(t *testing.T) {
	p := New(20, 100)
	r := p.Request(url.Values{})
	if r.Page != 1 || r.Size != 20 {
		t.Fatalf("got %+v, want page 1 size 20", r)
	}
}

func TestRequest_Clamping(t *testing.T) {
	p := New(20, 100)
	tests := []struct {
		name string
		q    url.Values
		want Request
	}{
		{"explicit", url.Values{"page": {"3"}, "size": {"10"}}, Request{3, 10}},
		{"size too big", url.Values{"size": {"500"}}, Request{1, 100}},
		{"size zero", url.Values{"size": {"0"}}, Request{1, 1}},
		{"page zero", url.Values{"page": {"0"}}, Request{1, 20}},
		{"page negative", url.Values{"page": {"-4"}}, Request{1, 20}},
		{"non numeric", url.Values{"page": {"two"}, "size": {"lots"}}, Request{1, 20}},
		{"page at max int", url.Values{"page": {"9223372036854775807"}}, Request{math.MaxInt / 20, 20}},
		{"page past int range", url.Values{"page": {"9223372036854775808"}}, Request{1, 20}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Request(tc.q); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestTotalPages_Arithmetic(t *testing.T) {
	for total := 0; total <= 50; total++ {
		for size := 1; size <= 12; size++ {
			got := TotalPages(total, size)
			want := total / size
			if total%size != 0 {
				want++
			}
			if got != want {
				t.Fatalf("TotalPages(%d,%d) = %d, want %d", total, size, got, want)
			}
			if (got == 0) != (total == 0) {
				t.Fatalf("TotalPages(%d,%d) = %d: zero iff total is zero", total, size, got)
			}
		}
	}
}

func TestCompute_EmptyReportsPageOne(t *testing.T) {
	p := New(20, 100)
	m := p.Compute(Request{Page: 0, Size: 20}, 0)
	if m.Page != 1 {
		t.Fatalf("Page = %d, want 1", m.Page)
	}
	if m.TotalPages != 0 || m.TotalItems != 0 {
		t.Fatalf("got %+v", m)
	}
}

func TestCompute_PastTheEnd(t *testing.T) {
	p := New(20, 100)
	m := p.Compute(Request{Page: 9, Size: 10}, 25)
	want := Meta{Page: 9, Size: 10, TotalPages: 3, TotalItems: 25}
	if m != want {
		t.Fatalf("got %+v, want %+v", m, want)
	}
}

func TestOffsetLimit(t *testing.T) {
	r := Request{Page: 3, Size: 10}
	if r.Offset() != 20 || r.Limit() != 10 {
		t.Fatalf("offset/limit = %d/%d", r.Offset(), r.Limit())
	}
}

func TestNew_FixesBadBounds(t *testing.T) {
	p := New(0, 0)
	if p.DefaultSize != 1 || p.MaxSize != 1 {
		t.Fatalf("got %+v", p)
	}
	p = New(500, 100)
	if p.DefaultSize != 100 {
		t.Fatalf("default above max should clamp, got %+v", p)
	}
}

func TestOffset_NeverNegative(t *testing.T) {
	p := New(20, 100)
	r := p.Clamp(Request{Page: math.MaxInt, Size: 100})
	if off := r.Offset(); off < 0 || off > math.MaxInt-r.Size {
		t.Fatalf("Offset() = %d for %+v", off, r)
	}
	// unclamped requests saturate instead of wrapping
	if off := (Request{Page: math.MaxInt, Size: 40}).Offset(); off != math.MaxInt {
		t.Fatalf("unclamped Offset() = %d, want MaxInt", off)
	}
}
