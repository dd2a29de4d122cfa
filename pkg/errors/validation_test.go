package errors

import (
	"strings"
	"testing"
)

func TestValidateProfileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "cargo", false},
		{"with dash", "npm-ls", false},
		{"with digits", "tree2", false},

		{"empty", "", true},
		{"uppercase", "Cargo", true},
		{"leading digit", "2tree", true},
		{"space", "my tree", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfileName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProfileName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidProfile) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidProfile)
			}
		})
	}
}

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		anchor  int
		data    int
		wantErr bool
	}{
		{"default", `[│\s]*([├└]─*\s*)`, 1, 0, false},
		{"data group", `^([│ ]*[├└]── )(.*)$`, 1, 2, false},
		{"whole match anchor", `[├└]─+`, 0, 0, false},

		{"empty", "", 1, 0, true},
		{"bad regex", `([├└]`, 1, 0, true},
		{"anchor out of range", `([├└])`, 2, 0, true},
		{"data out of range", `([├└])`, 1, 3, true},
		{"negative", `([├└])`, -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePattern(tt.pattern, tt.anchor, tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePattern() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPattern) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidPattern)
			}
		})
	}
}

func TestValidateMarker(t *testing.T) {
	if err := ValidateMarker(" (*)"); err != nil {
		t.Errorf("ValidateMarker() unexpected error: %v", err)
	}
	for _, bad := range []string{"", "   ", "(*)\n"} {
		if err := ValidateMarker(bad); err == nil {
			t.Errorf("ValidateMarker(%q) should fail", bad)
		}
	}
}

func TestValidateTreeID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},
		{"6BA7B810-9DAD-11D1-80B4-00C04FD430C8", true},
		{"6ba7b8109dad11d180b400c04fd430c8", true},
		{"../../etc/passwd", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateTreeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTreeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
