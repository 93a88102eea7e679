package segmenter

import (
	"testing"

	"abapseg/internal/domain"
)

func findRule(t *testing.T, kind domain.BlockKind) *recognizer {
	t.Helper()
	for _, r := range newRecognizers() {
		if r.kind == kind {
			return r
		}
	}
	t.Fatalf("no recognizer for kind %s", kind)
	return nil
}

func TestRecognizerHeaders(t *testing.T) {
	cases := []struct {
		kind    domain.BlockKind
		line    string
		matches bool
		name    string
	}{
		{domain.KindPerform, "FORM foo.", true, "foo"},
		{domain.KindPerform, "  form get_data using iv_key changing cv_val.", true, "get_data"},
		{domain.KindPerform, "FORM", false, ""},
		{domain.KindPerform, "FORM foo", false, ""}, // header period required
		{domain.KindPerform, "PERFORM foo.", false, ""},
		{domain.KindClassDefinition, "CLASS lcl_x DEFINITION.", true, "lcl_x"},
		{domain.KindClassDefinition, "CLASS lcl_x DEFINITION FINAL CREATE PRIVATE.", true, "lcl_x"},
		{domain.KindClassDefinition, "CLASS lcl_x IMPLEMENTATION.", false, ""},
		{domain.KindClassImpl, "CLASS lcl_x IMPLEMENTATION.", true, "lcl_x"},
		{domain.KindClassImpl, "class lcl_x implementation.", true, "lcl_x"},
		{domain.KindClassImpl, "CLASS lcl_x DEFINITION.", false, ""},
		{domain.KindFunction, "FUNCTION z_get_data.", true, "z_get_data"},
		{domain.KindModule, "MODULE status_1000 OUTPUT.", true, "status_1000"},
		{domain.KindModule, "MODULE user_command_0100 input.", true, "user_command_0100"},
		{domain.KindModule, "MODULE plain.", true, "plain"},
		{domain.KindMacro, "DEFINE emit_line.", true, "emit_line"},
	}

	for _, c := range cases {
		r := findRule(t, c.kind)
		sub := r.header.FindStringSubmatch(c.line)
		if c.matches && sub == nil {
			t.Errorf("%s: expected %q to match", c.kind, c.line)
			continue
		}
		if !c.matches {
			if sub != nil {
				t.Errorf("%s: expected %q not to match, captured %q", c.kind, c.line, sub[1])
			}
			continue
		}
		if sub[1] != c.name {
			t.Errorf("%s: expected name %q from %q, got %q", c.kind, c.name, c.line, sub[1])
		}
	}
}

func TestRecognizerClosers(t *testing.T) {
	cases := []struct {
		kind    domain.BlockKind
		line    string
		matches bool
	}{
		{domain.KindPerform, "ENDFORM.", true},
		{domain.KindPerform, "  endform.  ", true},
		{domain.KindPerform, "ENDFORM.  \" done", true},
		{domain.KindPerform, "ENDFORM. WRITE 1.", false},
		{domain.KindPerform, "ENDFORM", false},
		{domain.KindMacro, "END-OF-DEFINITION.", true},
		{domain.KindMacro, "ENDDEFINE.", false},
		{domain.KindModule, "ENDMODULE.", true},
	}

	for _, c := range cases {
		r := findRule(t, c.kind)
		if got := r.closer.MatchString(c.line); got != c.matches {
			t.Errorf("%s closer: %q matched=%v, expected %v", c.kind, c.line, got, c.matches)
		}
	}
}

func TestTryMatchBoundsCloserSearch(t *testing.T) {
	ix := indexLines("FORM a.\nWRITE.\nENDFORM.\n")
	r := findRule(t, domain.KindPerform)

	if _, ok := r.TryMatch(ix, 0, 2); ok {
		t.Error("closer outside the limit must not match")
	}
	m, ok := r.TryMatch(ix, 0, ix.Count())
	if !ok {
		t.Fatal("expected a match with the full range")
	}
	if m.HeaderLine != 0 || m.CloserLine != 2 {
		t.Errorf("expected header 0 and closer 2, got %d and %d", m.HeaderLine, m.CloserLine)
	}
	if ix.Text(m.Span) != "FORM a.\nWRITE.\nENDFORM." {
		t.Errorf("unexpected span text %q", ix.Text(m.Span))
	}
}

func TestModuleModeCapture(t *testing.T) {
	ix := indexLines("MODULE m OUTPUT.\nENDMODULE.")
	r := findRule(t, domain.KindModule)

	m, ok := r.TryMatch(ix, 0, ix.Count())
	if !ok {
		t.Fatal("expected match")
	}
	if m.Mode != domain.ModeOutput {
		t.Errorf("expected mode OUTPUT, got %q", m.Mode)
	}

	ix = indexLines("MODULE m output.\nENDMODULE.")
	m, ok = r.TryMatch(ix, 0, ix.Count())
	if !ok {
		t.Fatal("expected match")
	}
	if m.Mode != domain.ModeOutput {
		t.Errorf("mode must be uppercased, got %q", m.Mode)
	}
}
