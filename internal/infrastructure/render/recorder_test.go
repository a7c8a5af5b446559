package render

import (
	"bytes"
	"strings"
	"testing"

	"estate_addendum/internal/app/port"
)

func TestRecorder_OutputIsDeterministic(t *testing.T) {
	draw := func() []byte {
		r := NewRecorder()
		r.AddPage()
		r.DrawText(20, 20, "ADDENDUM", port.TextStyle{Size: 16, Bold: true})
		r.DrawLine(20, 30, 190, 30)
		r.AddPage()
		r.DrawText(20, 20, "page two", port.TextStyle{Size: 12})
		out, err := r.Output()
		if err != nil {
			t.Fatalf("output failed: %v", err)
		}
		return out
	}
	if !bytes.Equal(draw(), draw()) {
		t.Error("identical draw sequences produced different bytes")
	}
}

func TestRecorder_PageCountAndStream(t *testing.T) {
	r := NewRecorder()
	if r.PageCount() != 0 {
		t.Errorf("fresh recorder has %d pages", r.PageCount())
	}
	r.AddPage()
	r.DrawText(20, 25.5, `quoted "text"`, port.TextStyle{Size: 12, Bold: true})
	if r.PageCount() != 1 {
		t.Errorf("expected 1 page, got %d", r.PageCount())
	}

	out, err := r.Output()
	if err != nil {
		t.Fatalf("output failed: %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "PAGE 1\n") {
		t.Errorf("stream must start with the page marker: %q", s)
	}
	if !strings.Contains(s, "bold") {
		t.Error("bold style not recorded")
	}
	if !strings.Contains(s, `\"text\"`) && !strings.Contains(s, `"quoted`) {
		t.Errorf("text payload missing: %q", s)
	}
}

func TestRecorder_OutputWithoutPagesFails(t *testing.T) {
	if _, err := NewRecorder().Output(); err == nil {
		t.Error("output with no pages must fail")
	}
}
