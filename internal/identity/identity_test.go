package identity

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		pattern string
		wantErr bool
	}{
		{in: "1.2.3.4", want: Version{1, 2, 3, 4}},
		{in: "1.2", want: Version{1, 2, 0, 0}},
		{in: "1.2.*", want: Version{1, 2, 0, 0}, pattern: "1.2.*"},
		{in: "1.2.3.*", want: Version{1, 2, 3, 0}, pattern: "1.2.3.*"},
		{in: "1.*", wantErr: true},
		{in: "1.2.*.4", wantErr: true},
		{in: "1.2.3.4.5", wantErr: true},
		{in: "1.65535", wantErr: true},
	}
	for _, tt := range tests {
		v, p, err := ParseVersion(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseVersion(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseVersion(%q): %v", tt.in, err)
		}
		if v != tt.want {
			t.Errorf("ParseVersion(%q) = %v, want %v", tt.in, v, tt.want)
		}
		switch {
		case tt.pattern == "" && p != nil:
			t.Errorf("ParseVersion(%q): unexpected pattern %v", tt.in, p)
		case tt.pattern != "" && (p == nil || p.String() != tt.pattern):
			t.Errorf("ParseVersion(%q): pattern = %v, want %s", tt.in, p, tt.pattern)
		}
	}
}

func TestMetadataName(t *testing.T) {
	tests := []struct{ name, override, want string }{
		{"App", "", "App"},
		{"App", "bin/Renamed.dll", "Renamed"},
		{"App", `out\Win.exe`, "Win"},
		{"App", "NoExt", "NoExt"},
	}
	for _, tt := range tests {
		if got := MetadataName(tt.name, tt.override); got != tt.want {
			t.Errorf("MetadataName(%q, %q) = %q, want %q", tt.name, tt.override, got, tt.want)
		}
	}
}

func TestParseOutputKind(t *testing.T) {
	k, err := ParseOutputKind("module")
	if err != nil || k != NetModule || k.IsAssembly() {
		t.Fatalf("ParseOutputKind(module) = %v, %v", k, err)
	}
	if k, _ := ParseOutputKind(""); k != DynamicallyLinkedLibrary {
		t.Fatalf("default output kind = %v", k)
	}
	if _, err := ParseOutputKind("apk"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
