package scan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseWiFi(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    WiFi
	}{
		{
			name:    "ssid and password",
			payload: "WIFI:S:MyNet;P:Secret;",
			want:    WiFi{SSID: "MyNet", Password: "Secret"},
		},
		{
			name:    "full payload with type and hidden",
			payload: "WIFI:T:WPA;S:Cafe Guest;P:espresso42;H:false;;",
			want:    WiFi{SSID: "Cafe Guest", Password: "espresso42"},
		},
		{
			name:    "password before ssid",
			payload: "WIFI:P:pw;S:net;;",
			want:    WiFi{SSID: "net", Password: "pw"},
		},
		{
			name:    "first match wins",
			payload: "WIFI:S:one;S:two;P:a;P:b;",
			want:    WiFi{SSID: "one", Password: "a"},
		},
		{
			name:    "missing password",
			payload: "WIFI:T:nopass;S:Open;;",
			want:    WiFi{SSID: NotFound, Password: NotFound},
		},
		{
			name:    "missing ssid",
			payload: "WIFI:P:pw;",
			want:    WiFi{SSID: NotFound, Password: NotFound},
		},
		{
			name:    "unterminated fields",
			payload: "WIFI:S:net",
			want:    WiFi{SSID: NotFound, Password: NotFound},
		},
		{
			name:    "garbage",
			payload: "not a wifi code",
			want:    WiFi{SSID: NotFound, Password: NotFound},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseWiFi(tt.payload)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseWiFi(%q) mismatch (-want +got):\n%s", tt.payload, diff)
			}
		})
	}
}

func TestWiFiFormatting(t *testing.T) {
	w := WiFi{SSID: "Home", Password: "hunter2"}
	if diff := cmp.Diff("Home : hunter2", w.Display()); diff != "" {
		t.Errorf("Display mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("Wi-Fi SSID: Home\nPassword: hunter2", w.ShareText()); diff != "" {
		t.Errorf("ShareText mismatch (-want +got):\n%s", diff)
	}
}
