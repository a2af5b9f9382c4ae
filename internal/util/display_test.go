package util

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestPadToWidth(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		width     int
		leftAlign bool
		expected  string
	}{
		{name: "left align", text: "GET", width: 6, leftAlign: true, expected: "GET   "},
		{name: "right align", text: "200", width: 5, leftAlign: false, expected: "  200"},
		{name: "already wide enough", text: "DELETE", width: 4, leftAlign: true, expected: "DELETE"},
		{name: "exact width", text: "POST", width: 4, leftAlign: true, expected: "POST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PadToWidth(tt.text, tt.width, tt.leftAlign))
		})
	}
}

func TestPadToWidthWideRunes(t *testing.T) {
	// CJK runes occupy two cells; padding must account for display width
	padded := PadToWidth("请求", 8, true)
	assert.Equal(t, 8, runewidth.StringWidth(padded))
}

func TestTruncateToWidth(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "/api/users", TruncateToWidth("/api/users", 30))
	})

	t.Run("keeps head and tail", func(t *testing.T) {
		url := "https://api.example.com/v1/organizations/acme/projects/frontend/replays"
		got := TruncateToWidth(url, 40)
		assert.LessOrEqual(t, runewidth.StringWidth(got), 40)
		assert.Contains(t, got, "…")
		assert.True(t, strings.HasPrefix(got, "https://"))
		assert.True(t, strings.HasSuffix(got, "replays"))
	})

	t.Run("zero width", func(t *testing.T) {
		assert.Equal(t, "", TruncateToWidth("anything", 0))
	})

	t.Run("width one", func(t *testing.T) {
		assert.Equal(t, "…", TruncateToWidth("anything", 1))
	})
}

func TestCenterText(t *testing.T) {
	t.Run("centers with balanced padding", func(t *testing.T) {
		got := CenterText("ab", 6)
		assert.Equal(t, "  ab  ", got)
	})

	t.Run("uneven padding leans right", func(t *testing.T) {
		got := CenterText("abc", 6)
		assert.Equal(t, " abc  ", got)
	})

	t.Run("truncates oversize text", func(t *testing.T) {
		got := CenterText("abcdefgh", 4)
		assert.Equal(t, "abcd", got)
	})
}

func TestStatusColor(t *testing.T) {
	status := func(c int) *int { return &c }

	tests := []struct {
		name     string
		input    *int
		expected string
	}{
		{name: "2xx green", input: status(204), expected: ColorGreen},
		{name: "3xx cyan", input: status(302), expected: ColorCyan},
		{name: "4xx yellow", input: status(418), expected: ColorYellow},
		{name: "5xx red", input: status(500), expected: ColorRed},
		{name: "nil gray", input: nil, expected: ColorGray},
		{name: "1xx gray", input: status(101), expected: ColorGray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusColor(tt.input))
		})
	}
}

func TestCreateProgressBar(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		bar := CreateProgressBar(100, 22)
		assert.Equal(t, "["+strings.Repeat("█", 10)+"]", bar)
	})

	t.Run("empty", func(t *testing.T) {
		bar := CreateProgressBar(0, 22)
		assert.Equal(t, "["+strings.Repeat("░", 10)+"]", bar)
	})

	t.Run("half", func(t *testing.T) {
		bar := CreateProgressBar(50, 22)
		assert.Equal(t, "["+strings.Repeat("█", 5)+strings.Repeat("░", 5)+"]", bar)
	})
}
