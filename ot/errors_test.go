package ot

import "testing"

func TestErrorSeverity(t *testing.T) {
	tests := []struct {
		severity ErrorSeverity
		expected string
	}{
		{SeverityCritical, "CRITICAL"},
		{SeverityMajor, "MAJOR"},
		{SeverityMinor, "MINOR"},
		{ErrorSeverity(999), "UNKNOWN"},
	}
	for _, tt := range tests {
		if result := tt.severity.String(); result != tt.expected {
			t.Errorf("ErrorSeverity(%d).String() = %q; want %q", tt.severity, result, tt.expected)
		}
	}
}

func TestFontErrorFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      FontError
		expected string
	}{
		{
			name: "with offset",
			err: FontError{
				Table:    T("OS/2"),
				Section:  "Size",
				Issue:    "table too small",
				Severity: SeverityCritical,
				Offset:   1234,
			},
			expected: "[CRITICAL] OS/2/Size at offset 1234: table too small",
		},
		{
			name: "without offset",
			err: FontError{
				Table:    T("fvar"),
				Section:  "Axes",
				Issue:    "axis record size 12",
				Severity: SeverityMajor,
			},
			expected: "[MAJOR] fvar/Axes: axis record size 12",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.err.Error(); result != tt.expected {
				t.Errorf("FontError.Error() = %q; want %q", result, tt.expected)
			}
		})
	}
}

func TestFontWarningFormat(t *testing.T) {
	w := FontWarning{Table: T("post"), Issue: "table checksum mismatch", Offset: 5678}
	if s := w.String(); s != "[WARNING] post at offset 5678: table checksum mismatch" {
		t.Errorf("FontWarning.String() = %q", s)
	}
	w = FontWarning{Table: T("head"), Issue: "bad magic number 0"}
	if s := w.String(); s != "[WARNING] head: bad magic number 0" {
		t.Errorf("FontWarning.String() = %q", s)
	}
}

func TestErrorCollector(t *testing.T) {
	ec := &errorCollector{}
	ec.addError(T("OS/2"), "Size", "too small", SeverityCritical, 100)
	ec.addWarning(T("name"), "table checksum mismatch", 200)
	if len(ec.errors) != 1 || len(ec.warnings) != 1 {
		t.Fatalf("expected 1 error and 1 warning, got %d/%d", len(ec.errors), len(ec.warnings))
	}
	if ec.errors[0].Severity != SeverityCritical {
		t.Errorf("expected critical severity, got %s", ec.errors[0].Severity)
	}
	otf := NewFont(FontTypeTrueType)
	if len(otf.Errors()) != 0 || len(otf.Warnings()) != 0 {
		t.Errorf("fresh font should not report errors or warnings")
	}
}
