package textcase

import (
	"sync"
	"testing"
)

func TestUpper(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"gpideal", "GPIDEAL"},
		{"GpIdeal", "GPIDEAL"},
		{"zrrifle_2", "ZRRIFLE_2"},
		{"café", "CAFÉ"},
	}
	for _, tc := range tests {
		if got := Upper(tc.in); got != tc.want {
			t.Errorf("Upper(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLower(t *testing.T) {
	if got := Lower("What DOES"); got != "what does" {
		t.Errorf("Lower = %q", got)
	}
}

func TestConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if Upper("ajax") != "AJAX" || Lower("AJAX") != "ajax" {
					t.Error("unexpected casing result")
					return
				}
			}
		}()
	}
	wg.Wait()
}
