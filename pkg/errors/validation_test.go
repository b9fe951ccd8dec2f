package errors

import (
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"root", "(root)", false},
		{"child", "(root)/a", false},
		{"nested", "(root)/a/0/b", false},
		{"key with spaces", "(root)/first name", false},
		{"empty key", "(root)/", false},
		{"key ending in separator", "(root)/x/", false},
		{"key with tab", "(root)/a\tb", false},
		{"key with newline", "(root)/a\nb", false},

		{"empty", "", true},
		{"foreign root", "root/a", true},
		{"root prefix only", "(root)x", true},
		{"too long", "(root)/" + strings.Repeat("a", maxPathLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input, "(root)")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/data.json", false},
		{"http", "http://example.com/data.json", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOneOf(t *testing.T) {
	if err := ValidateOneOf(ErrCodeInvalidStyle, "style", "dark", "light", "dark"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := ValidateOneOf(ErrCodeInvalidStyle, "style", "neon", "light", "dark")
	if !Is(err, ErrCodeInvalidStyle) {
		t.Fatalf("code = %v, want %v", GetCode(err), ErrCodeInvalidStyle)
	}
	want := `invalid style: "neon" (must be one of: light, dark)`
	if UserMessage(err) != want {
		t.Errorf("message = %q, want %q", UserMessage(err), want)
	}
}
