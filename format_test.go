package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * sizeMB, "5.0 MB"},
		{int64(2.5 * float64(sizeGB)), "2.5 GB"},
		{3 * sizeTB, "3.0 TB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSize(tt.bytes))
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", formatTime(time.Time{}))

	thisYear := time.Date(time.Now().Year(), time.March, 5, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "Mar  5 14:30", formatTime(thisYear))

	old := time.Date(2019, time.March, 5, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "Mar  5  2019", formatTime(old))
}

func TestYesNo(t *testing.T) {
	assert.Equal(t, "yes", yesNo(true))
	assert.Equal(t, "no", yesNo(false))
}

func TestPrintTable(t *testing.T) {
	var buf strings.Builder

	printTable(&buf, []string{"NAME", "SIZE"}, [][]string{
		{"a.txt", "12 B"},
		{"long-name.txt", "1.0 KB"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)

	// All columns align on the widest cell.
	assert.Equal(t, "NAME           SIZE", strings.TrimRight(lines[0], " "))
	assert.Equal(t, "a.txt          12 B", strings.TrimRight(lines[1], " "))
	assert.Equal(t, "long-name.txt  1.0 KB", strings.TrimRight(lines[2], " "))
}

func TestPrintKV(t *testing.T) {
	var buf strings.Builder

	printKV(&buf, [][]string{
		{"File name:", "a.txt"},
		{"Object ID:", "abc123"},
	})

	assert.Equal(t, "File name:  a.txt\nObject ID:  abc123\n", buf.String())
}
