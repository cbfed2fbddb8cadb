package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Table collects rows and prints them aligned, with a dashed rule under the
// header.
type Table struct {
	out  io.Writer
	rows [][]string
}

func NewTable(headers ...string) *Table {
	rule := make([]string, len(headers))
	for i, h := range headers {
		rule[i] = strings.Repeat("-", len(h))
	}
	return &Table{out: os.Stdout, rows: [][]string{headers, rule}}
}

func (t *Table) AddRow(cols ...string) {
	t.rows = append(t.rows, cols)
}

func (t *Table) Render() {
	tw := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	for _, r := range t.rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	_ = tw.Flush()
}

// printOutput writes data as YAML when asked to, and as indented JSON
// otherwise. Table output is built by each command.
func printOutput(data interface{}) error {
	return encodeTo(os.Stdout, getOutputFormat(), data)
}

func encodeTo(w io.Writer, format string, data interface{}) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// formatPrice renders minor currency units as a decimal amount.
func formatPrice(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// statusStyle maps subscription and workflow request statuses to a plain
// marker and a terminal colour.
var statusStyle = map[string][2]string{
	"active":    {"[+]", ansiGreen},
	"approved":  {"[+]", ansiGreen},
	"completed": {"[+]", ansiGreen},
	"canceled":  {"[-]", ansiRed},
	"rejected":  {"[-]", ansiRed},
	"pending":   {"[*]", ansiYellow},
	"canceling": {"[~]", ansiCyan},
}

func formatStatus(status string) string {
	style, ok := statusStyle[strings.ToLower(status)]
	if !ok {
		return status
	}
	if noColor {
		return style[0] + " " + status
	}
	return style[1] + status + ansiReset
}

func formatID(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

func formatBadges(flags map[string]bool) string {
	var out []string
	for _, name := range []string{"popular", "new", "enterprise", "featured"} {
		if flags[name] {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ",")
}
