package model

import "testing"

func TestChangeResultIsChange(t *testing.T) {
	tests := map[Action]bool{
		ActionCreate:    true,
		ActionUpdate:    true,
		ActionDelete:    true,
		ActionUnchanged: false,
	}
	for action, want := range tests {
		if got := (ChangeResult{Path: "a", Action: action}).IsChange(); got != want {
			t.Errorf("IsChange() for %s = %v, want %v", action, got, want)
		}
	}
}

func TestValidationResult(t *testing.T) {
	r := NewValidationResult()
	r.AddWarning(Issue{Path: []string{"rules/a.md"}, Message: "advisory"})
	r.AddSkipped("skills")
	if !r.Valid {
		t.Error("warnings and skipped features must not invalidate the result")
	}

	r.AddError(Issue{Path: []string{"config.json", "tools"}, Message: "expected object"})
	if r.Valid {
		t.Error("AddError should mark the result invalid")
	}
	if got := r.Errors[0].String(); got != "config.json.tools: expected object" {
		t.Errorf("Issue.String() = %q", got)
	}
}

func TestFileKindIsValid(t *testing.T) {
	for _, k := range []FileKind{KindJSON, KindText, KindSymlink} {
		if !k.IsValid() {
			t.Errorf("%q should be valid", k)
		}
	}
	if FileKind("binary").IsValid() {
		t.Error("unknown kind should be invalid")
	}
}
