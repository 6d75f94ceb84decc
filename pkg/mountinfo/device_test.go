package mountinfo

import "testing"

func TestNewDevice(t *testing.T) {
	tests := []struct {
		name      string
		major     int
		minor     int
		wantMajor int
		wantMinor int
	}{
		{
			name:      "simple pair",
			major:     8,
			minor:     1,
			wantMajor: 8,
			wantMinor: 1,
		},
		{
			name:      "zero device",
			major:     0,
			minor:     0,
			wantMajor: 0,
			wantMinor: 0,
		},
		{
			name:      "minor masked to 16 bits",
			major:     8,
			minor:     0x10003,
			wantMajor: 8,
			wantMinor: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDevice(tt.major, tt.minor)
			if d.Major != tt.wantMajor || d.Minor != tt.wantMinor {
				t.Errorf("NewDevice(%d, %d) = %d:%d, want %d:%d",
					tt.major, tt.minor, d.Major, d.Minor, tt.wantMajor, tt.wantMinor)
			}
		})
	}
}

func TestDeviceRawRoundTrip(t *testing.T) {
	tests := []struct {
		major int
		minor int
		raw   int
	}{
		{0, 0, 0},
		{8, 1, 8<<16 | 1},
		{252, 3, 252<<16 | 3},
		{0xffff, 0xffff, 0xffff<<16 | 0xffff},
	}

	for _, tt := range tests {
		d := NewDevice(tt.major, tt.minor)
		if got := d.Raw(); got != tt.raw {
			t.Errorf("Device{%d, %d}.Raw() = %#x, want %#x", tt.major, tt.minor, got, tt.raw)
		}
		if back := DeviceFromRaw(tt.raw); back != d {
			t.Errorf("DeviceFromRaw(%#x) = %v, want %v", tt.raw, back, d)
		}
	}
}

func TestDeviceString(t *testing.T) {
	if got := NewDevice(8, 1).String(); got != "8:1" {
		t.Errorf("String() = %q, want %q", got, "8:1")
	}
	if got := NewDevice(0, 25).String(); got != "0:25" {
		t.Errorf("String() = %q, want %q", got, "0:25")
	}
}

func TestParseDevice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Device
		wantErr bool
	}{
		{
			name:  "valid",
			input: "8:1",
			want:  Device{Major: 8, Minor: 1},
		},
		{
			name:  "zero major",
			input: "0:25",
			want:  Device{Major: 0, Minor: 25},
		},
		{
			name:    "no colon",
			input:   "81",
			wantErr: true,
		},
		{
			name:    "bad major",
			input:   "x:1",
			wantErr: true,
		},
		{
			name:    "bad minor",
			input:   "8:y",
			wantErr: true,
		},
		{
			name:    "extra colon makes minor invalid",
			input:   "8:1:2",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDevice(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDevice(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDevice(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDevice(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
