package main

import (
	"testing"

	"go.uber.org/zap"
)

func TestReadNetworkInfoAllSet(t *testing.T) {
	t.Setenv(envNetworkType, "wifi")
	t.Setenv(envNetworkIP, "192.168.1.42")
	t.Setenv(envNetworkStatus, "connected")
	t.Setenv(envNetworkGateway, "192.168.1.1")
	t.Setenv(envNetworkWifiStatus, "associated")
	t.Setenv(envNetworkWifiSSID, "bins")

	info := readNetworkInfo()
	if info == nil {
		t.Fatal("expected network info")
	}
	if info.Type != "wifi" || info.IP != "192.168.1.42" || info.SSID != "bins" {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestReadNetworkInfoNoneSet(t *testing.T) {
	t.Setenv(envNetworkStatus, "")
	if info := readNetworkInfo(); info != nil {
		t.Errorf("expected nil without %s, got %+v", envNetworkStatus, info)
	}
}

func TestReadNetworkInfoPartial(t *testing.T) {
	t.Setenv(envNetworkStatus, "connected")
	t.Setenv(envNetworkType, "")
	t.Setenv(envNetworkIP, "")
	t.Setenv(envNetworkGateway, "")
	t.Setenv(envNetworkWifiStatus, "")
	t.Setenv(envNetworkWifiSSID, "")

	info := readNetworkInfo()
	if info == nil {
		t.Fatal("status alone should be enough")
	}
	if info.Status != "connected" || info.Type != "" {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestResolveWSBroker(t *testing.T) {
	log := zap.NewNop().Sugar()

	tests := []struct {
		name   string
		ws     string
		broker string
		want   string
	}{
		{"derive from broker", "=broker", "tcp://192.168.1.200:1883", "ws://192.168.1.200:9001"},
		{"derive with no broker", "=broker", "", ""},
		{"explicit url", "ws://other:9001", "tcp://192.168.1.200:1883", "ws://other:9001"},
		{"off", "off", "tcp://192.168.1.200:1883", ""},
		{"empty", "", "tcp://192.168.1.200:1883", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveWSBroker(tt.ws, tt.broker, log); got != tt.want {
				t.Errorf("resolveWSBroker(%q, %q) = %q, want %q", tt.ws, tt.broker, got, tt.want)
			}
		})
	}
}
