package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		minor int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{999, "9.99"},
		{9999, "99.99"},
		{120000, "1200.00"},
	}
	for _, tt := range tests {
		if got := formatPrice(tt.minor); got != tt.want {
			t.Errorf("formatPrice(%d) = %q, want %q", tt.minor, got, tt.want)
		}
	}
}

func TestKindArg(t *testing.T) {
	for _, ok := range []string{"agent", "team"} {
		if _, err := kindArg(ok); err != nil {
			t.Errorf("kindArg(%q) returned error: %v", ok, err)
		}
	}
	if _, err := kindArg("bundle"); err == nil {
		t.Error("kindArg(bundle) should fail")
	}
}

func TestRequiresAuth(t *testing.T) {
	agentCmd := newAgentCmd()
	var list *cobra.Command
	for _, c := range agentCmd.Commands() {
		if c.Name() == "list" {
			list = c
		}
	}
	if list == nil {
		t.Fatal("agent list command missing")
	}
	if requiresAuth(list) {
		t.Error("agent list should be public")
	}

	sub := newSubscriptionCmd()
	for _, c := range sub.Commands() {
		if !requiresAuth(c) {
			t.Errorf("subscription %s should require auth", c.Name())
		}
	}
}

func TestRootRegistersCommands(t *testing.T) {
	want := []string{"auth", "config", "status", "agent", "team", "subscribe", "subscription", "request", "admin"}
	got := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		got[c.Name()] = true
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestSetKeyValidates(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"server_url", "https://market.example.com", false},
		{"server_url", "market.example.com", true},
		{"output", "yaml", false},
		{"output", "xml", true},
		{"auth.token", "abc", true},
	}
	for _, tt := range tests {
		err := setKey(tt.key, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("setKey(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
		}
	}
}

func TestShownValueHidesTokens(t *testing.T) {
	if got := shownValue("auth.token", "eyJhbGci"); got != "(stored)" {
		t.Errorf("token shown as %q", got)
	}
	if got := shownValue("auth.refresh_token", ""); got != "(not set)" {
		t.Errorf("empty refresh token shown as %q", got)
	}
	if got := shownValue("auth.username", "ada"); got != "ada" {
		t.Errorf("username shown as %q", got)
	}
	if got := shownValue("output", nil); got != "(not set)" {
		t.Errorf("missing key shown as %q", got)
	}
}

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable("ID", "STATUS")
	tbl.out = &buf
	tbl.AddRow("12", "active")
	tbl.Render()

	want := "ID  STATUS\n--  ------\n12  active\n"
	if buf.String() != want {
		t.Errorf("Render() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestFormatStatus(t *testing.T) {
	noColor = true
	defer func() { noColor = false }()

	if got := formatStatus("canceling"); got != "[~] canceling" {
		t.Errorf("formatStatus(canceling) = %q", got)
	}
	if got := formatStatus("archived"); got != "archived" {
		t.Errorf("formatStatus(archived) = %q", got)
	}
}
