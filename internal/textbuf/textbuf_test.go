package textbuf

import (
	"strings"
	"sync"
	"testing"
)

func TestFromString(t *testing.T) {
	b := FromString("hello")
	if got := b.String(); got != "hello" {
		t.Errorf("String() = %q, want %q", got, "hello")
	}
	if got := b.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
}

func TestAppendReturnsStartOffset(t *testing.T) {
	b := FromString("abc")
	start := b.Append("def")
	if start != 3 {
		t.Errorf("Append start = %d, want 3", start)
	}
	if got := b.String(); got != "abcdef" {
		t.Errorf("String() = %q, want %q", got, "abcdef")
	}
}

func TestSliceClamps(t *testing.T) {
	b := FromString("hello")

	tests := []struct {
		name       string
		start, end int
		want       string
	}{
		{"inside", 1, 4, "ell"},
		{"full", 0, 5, "hello"},
		{"end past length", 3, 99, "lo"},
		{"negative start", -2, 2, "he"},
		{"inverted", 4, 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Slice(tt.start, tt.end); got != tt.want {
				t.Errorf("Slice(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestRuneAt(t *testing.T) {
	b := FromString("aé")

	r, size := b.RuneAt(0)
	if r != 'a' || size != 1 {
		t.Errorf("RuneAt(0) = %q, %d, want 'a', 1", r, size)
	}

	r, size = b.RuneAt(1)
	if r != 'é' || size != 2 {
		t.Errorf("RuneAt(1) = %q, %d, want 'é', 2", r, size)
	}

	if _, size := b.RuneAt(99); size != 0 {
		t.Errorf("RuneAt(99) size = %d, want 0", size)
	}
}

func TestSpanResolve(t *testing.T) {
	b := FromString("hello world")

	sp := Span{Offset: 6, Len: 5}
	got, err := sp.Resolve(b)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "world" {
		t.Errorf("Resolve = %q, want %q", got, "world")
	}
}

func TestSpanResolveOutOfRange(t *testing.T) {
	b := FromString("short")

	if _, err := (Span{Offset: 3, Len: 10}).Resolve(b); err == nil {
		t.Error("Resolve past end: got nil error, want ErrSpanOutOfRange")
	}
	if _, err := (Span{Offset: -1, Len: 2}).Resolve(b); err == nil {
		t.Error("Resolve negative offset: got nil error, want ErrSpanOutOfRange")
	}
}

func TestSpanSurvivesAppend(t *testing.T) {
	b := FromString("body text")
	sp := Span{Offset: 0, Len: 4}

	// Growth must not invalidate outstanding spans.
	b.Append(strings.Repeat("z", 1024))

	got, err := sp.Resolve(b)
	if err != nil {
		t.Fatalf("Resolve after Append failed: %v", err)
	}
	if got != "body" {
		t.Errorf("Resolve after Append = %q, want %q", got, "body")
	}
}

func TestConcurrentReads(t *testing.T) {
	b := FromString(strings.Repeat("abc", 100))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = b.Slice(j, j+3)
				_, _ = b.RuneAt(j)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 10; j++ {
			b.Append("xyz")
		}
	}()
	wg.Wait()

	if got := b.Len(); got != 330 {
		t.Errorf("Len() = %d, want 330", got)
	}
}
