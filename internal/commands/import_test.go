package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlog/spendlog/internal/importlog"
)

const sample = "Date\tAmount\tMemo\tCategory\tMethod\tType\n" +
	"2024-01-05\t250\tGroceries\tFood\tCash\trevenue\n" +
	"2024-01-20\t40\tBus pass\ttransport\tcredit card\toutgo\n" +
	"Categories:\n" +
	"Food\tTransport\n" +
	"Payment Methods:\n" +
	"Cash\n" +
	"User Settings:\n" +
	"Name\tAlice\n" +
	"Currency\tUSD\n"

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImport_ScansImportDir(t *testing.T) {
	dir := initProject(t)
	writeFile(t, filepath.Join(dir, "import", "jan.tsv"), sample)

	out, err := runSpendlog(t, "import", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "jan.tsv: imported 2, skipped 0, dropped 0, errors 0")

	assert.NoFileExists(t, filepath.Join(dir, "import", "jan.tsv"))
	assert.FileExists(t, filepath.Join(dir, "import", "processed", "jan.tsv"))

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "jan.tsv", entries[0].File)
	assert.Equal(t, 2, entries[0].Imported)
}

func TestImport_SecondRunSkips(t *testing.T) {
	dir := initProject(t)
	path := writeFile(t, filepath.Join(t.TempDir(), "jan.tsv"), sample)

	_, err := runSpendlog(t, "import", "--repo", dir, path)
	require.NoError(t, err)

	out, err := runSpendlog(t, "import", "--repo", dir, path)
	require.NoError(t, err)
	assert.Contains(t, out, "jan.tsv: imported 0, skipped 2")
	assert.FileExists(t, path, "explicit files are not moved")
}

func TestImport_NothingToDo(t *testing.T) {
	dir := initProject(t)
	out, err := runSpendlog(t, "import", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No files to import")
}

func TestImport_DryRun(t *testing.T) {
	dir := initProject(t)
	path := writeFile(t, filepath.Join(t.TempDir(), "jan.tsv"), sample)

	out, err := runSpendlog(t, "import", "--repo", dir, "--dry-run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2")
	assert.Contains(t, out, "Dry run")

	out, err = runSpendlog(t, "month", "2024-01", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No transactions")

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImport_ReportsErrors(t *testing.T) {
	dir := initProject(t)
	content := "Date\tAmount\tMemo\tCategory\tMethod\tType\n" +
		"2024-01-05\tlots\tGroceries\tFood\tCash\toutgo\n"
	path := writeFile(t, filepath.Join(t.TempDir(), "bad.tsv"), content)

	out, err := runSpendlog(t, "import", "--repo", dir, path)
	require.NoError(t, err)
	assert.Contains(t, out, "errors 1")
	assert.Contains(t, out, "Failed to import transaction")
	assert.Contains(t, out, "2024-01-05\tlots\tGroceries")
}

func TestImport_InvalidFile(t *testing.T) {
	dir := initProject(t)
	bad := writeFile(t, filepath.Join(dir, "import", "bad.tsv"), strings.Repeat("a", 1<<20+1))
	good := writeFile(t, filepath.Join(dir, "import", "good.tsv"), sample)

	out, err := runSpendlog(t, "import", "--repo", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, out, "invalid file format")
	assert.Contains(t, out, "good.tsv: imported 2")

	assert.FileExists(t, bad, "failed files stay in place")
	assert.NoFileExists(t, good)
}

func TestHistory(t *testing.T) {
	dir := initProject(t)
	out, err := runSpendlog(t, "history", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No imports yet")

	writeFile(t, filepath.Join(dir, "import", "jan.tsv"), sample)
	_, err = runSpendlog(t, "import", "--repo", dir)
	require.NoError(t, err)

	out, err = runSpendlog(t, "history", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "jan.tsv")
}
