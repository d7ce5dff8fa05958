package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLedgerRequiresAPath(t *testing.T) {
	_, _, err := openLedger("", "", nil)
	assert.Error(t, err, "no silent empty-path store")
}

func TestOpenLedgerPrefersCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.csv")
	csv := "Invoice Number,Name,Amount,Due Date,Status,Date Created,Account\n" +
		"4410,Acme Industrial Supply,1199.50,04/01/2024,Open,03/01/2024,AR\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	store, cleanup, err := openLedger(path, "unused.db", nil)
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, store)
}

func TestReadTranscriptionsSortedByName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page-2.txt"), []byte("second"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page-1.txt"), []byte("first"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("skip"), 0o644))

	names, texts, err := readTranscriptions(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"page-1.txt", "page-2.txt"}, names)
	assert.Equal(t, []string{"first", "second"}, texts)
}
