// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_CreatesAndOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "out.md")

	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0644))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestAtomicWriteFile_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, AtomicWriteFile(filepath.Join(dir, "a.json"), []byte("{}"), 0644))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.json", entries[0].Name())
}

func TestAtomicWriteFileWithDir_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	dir := filepath.Join(t.TempDir(), "private")
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, AtomicWriteFileWithDir(path, []byte("x = 1"), 0600, 0700))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"héllo wörld", 7, "héll..."},
		{"日本語テキスト", 5, "日本..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncateRunes(tt.in, tt.max), "TruncateRunes(%q, %d)", tt.in, tt.max)
	}
}

func TestTruncateRunesNoEllipsis(t *testing.T) {
	assert.Equal(t, "hel", TruncateRunesNoEllipsis("hello", 3))
	assert.Equal(t, "hi", TruncateRunesNoEllipsis("hi", 3))
	assert.Equal(t, "日本", TruncateRunesNoEllipsis("日本語", 2))
	assert.Equal(t, "", TruncateRunesNoEllipsis("x", -1))
}

func TestTruncateWidth(t *testing.T) {
	assert.Equal(t, "short", TruncateWidth("short", 10))
	assert.Equal(t, "", TruncateWidth("anything", 0))
	assert.Equal(t, "abcd...", TruncateWidth("abcdefghij", 7))

	// Each CJK rune is two columns wide.
	got := TruncateWidth("日本語テキスト", 7)
	assert.LessOrEqual(t, StringWidth(got), 7)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestStringWidth(t *testing.T) {
	assert.Equal(t, 5, StringWidth("hello"))
	assert.Equal(t, 6, StringWidth("日本語"))
	assert.Equal(t, 0, StringWidth(""))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", PadRight("ab", 4))
	assert.Equal(t, 5, StringWidth(PadRight("日本", 5)))
	assert.Equal(t, "toolong", PadRight("toolong", 3))
}

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "what can you do", SingleLine("  what\ncan\t you   do \n"))
	assert.Equal(t, "", SingleLine(" \n\t "))
}
