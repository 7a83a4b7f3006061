package commands_test

import (
	"encoding/csv"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gncx-dev/gncx/internal/accounts"
	"github.com/gncx-dev/gncx/internal/ledger"
	"github.com/gncx-dev/gncx/internal/report"
)

var (
	binaryPath string
	samplePath string
)

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "gncx-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "gncx")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/gncx")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	samplePath, err = filepath.Abs("../../testdata/sample.gnucash")
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// runGncx runs the binary in dir with GNCX_* variables cleared.
func runGncx(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "GNCX_") {
			cmd.Env = append(cmd.Env, kv)
		}
	}
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// copySample copies the sample book into a fresh directory, optionally
// rewriting parts of it.
func copySample(t *testing.T, replacements ...string) string {
	t.Helper()
	data, err := os.ReadFile(samplePath)
	require.NoError(t, err)
	content := strings.NewReplacer(replacements...).Replace(string(data))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.gnucash"), []byte(content), 0o644))
	return dir
}

func TestInit_WritesConfig(t *testing.T) {
	dir := copySample(t)

	out, err := runGncx(t, dir, "init", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "format: xml")

	data, err := os.ReadFile(filepath.Join(dir, "gncx.yaml"))
	require.NoError(t, err)
	contents := string(data)
	assert.Contains(t, contents, "book: books.gnucash")
	assert.Contains(t, contents, "format: xml")
	assert.Contains(t, contents, "tolerance:")
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := copySample(t)

	_, err := runGncx(t, dir, "init", dir)
	require.NoError(t, err)

	out, err := runGncx(t, dir, "init", dir)
	require.Error(t, err)
	assert.Contains(t, out, "already exists")

	_, err = runGncx(t, dir, "init", dir, "--force")
	require.NoError(t, err)
}

func TestInit_NoBook(t *testing.T) {
	dir := t.TempDir()
	out, err := runGncx(t, dir, "init", dir)
	require.Error(t, err)
	assert.Contains(t, out, "no book file found")
}

func TestInvoices_FromConfig(t *testing.T) {
	dir := copySample(t)
	_, err := runGncx(t, dir, "init", dir)
	require.NoError(t, err)

	// The book path in gncx.yaml resolves against the config's directory.
	out, err := runGncx(t, t.TempDir(), "invoices", "--config", filepath.Join(dir, "gncx.yaml"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "000001")
	assert.Contains(t, out, "EUR  total 399.00  paid 140.00  unpaid 259.00")
}

func TestInvoices_CSV(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"all", nil, []string{"inv-1", "bill-1", "inv-draft"}},
		{"unpaid", []string{"--unpaid"}, []string{"inv-1", "inv-draft"}},
		{"posted", []string{"--posted"}, []string{"inv-1", "bill-1"}},
		{"overdue", []string{"--unpaid", "--as-of", "2024-03-01"}, []string{"inv-1"}},
		{"customer", []string{"--family", "customer"}, []string{"inv-1", "inv-draft"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"invoices", "--book", samplePath, "--csv"}, tt.args...)
			out, err := runGncx(t, t.TempDir(), args...)
			require.NoError(t, err, out)

			records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
			require.NoError(t, err)
			require.NotEmpty(t, records)
			assert.Equal(t, strings.Split(report.Header, ","), records[0])

			var ids []string
			for _, rec := range records[1:] {
				ids = append(ids, rec[0])
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestInvoices_BadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"family", []string{"--family", "partner"}, "unknown invoice family"},
		{"as-of", []string{"--as-of", "01/03/2024"}, "parsing --as-of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"invoices", "--book", samplePath}, tt.args...)
			out, err := runGncx(t, t.TempDir(), args...)
			require.Error(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestInvoices_NoBook(t *testing.T) {
	out, err := runGncx(t, t.TempDir(), "invoices")
	require.Error(t, err)
	assert.Contains(t, out, "no book configured")
}

func TestInvoices_BookFromEnv(t *testing.T) {
	cmd := exec.Command(binaryPath, "invoices", "--csv")
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), "GNCX_BOOK="+samplePath)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "bill-1")
}

func TestAccounts_Tree(t *testing.T) {
	out, err := runGncx(t, t.TempDir(), "accounts", "--book", samplePath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Checking")
	assert.Contains(t, out, "60.00")
	assert.NotContains(t, out, "Office Supplies")

	out, err = runGncx(t, t.TempDir(), "accounts", "--book", samplePath, "--hidden")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Office Supplies")
}

func TestAccounts_CSV(t *testing.T) {
	out, err := runGncx(t, t.TempDir(), "accounts", "--book", samplePath, "--csv")
	require.NoError(t, err, out)

	recs, err := accounts.ReadAccounts(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, recs, 7, "every account except the root")
}

func TestAccounts_Find(t *testing.T) {
	out, err := runGncx(t, t.TempDir(), "accounts", "--book", samplePath, "--find", "checkng")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Assets:Checking")

	out, err = runGncx(t, t.TempDir(), "accounts", "--book", samplePath, "--find", "payroll", "--max-distance", "1")
	require.Error(t, err)
	assert.Contains(t, out, "no account matches")
}

func TestCheck_Clean(t *testing.T) {
	out, err := runGncx(t, t.TempDir(), "check", "--book", samplePath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "OK: 4 transactions, 3 invoices")
}

func TestCheck_Unbalanced(t *testing.T) {
	dir := copySample(t, "<split:value>-1900/100</split:value>", "<split:value>-1800/100</split:value>")

	out, err := runGncx(t, dir, "check", "--book", "books.gnucash")
	require.Error(t, err)
	assert.Contains(t, out, "tx-post")
	assert.Contains(t, out, "problem(s) found")
}

func TestCheck_Malformed(t *testing.T) {
	dir := copySample(t, "<act:type>EXPENSE</act:type>", "<act:type>SPENDING</act:type>")

	out, err := runGncx(t, dir, "invoices", "--book", "books.gnucash")
	require.Error(t, err, "malformed records abort by default")
	assert.Contains(t, out, "building book")

	out, err = runGncx(t, dir, "check", "--book", "books.gnucash", "--skip-malformed", "--csv")
	require.Error(t, err)
	assert.Contains(t, out, "malformed,expenses")
}

func TestExportJournal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.csv")

	out, err := runGncx(t, dir, "export", "journal", "--book", samplePath, "-o", path)
	require.NoError(t, err, out)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := ledger.ReadJournal(f)
	require.NoError(t, err)
	assert.Len(t, rows, 9)
	assert.Equal(t, "tx-post", rows[0].TransactionID)
}

func TestUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.gnucash")
	require.NoError(t, os.WriteFile(path, []byte("just some text"), 0o644))

	out, err := runGncx(t, dir, "invoices", "--book", path)
	require.Error(t, err)
	assert.Contains(t, out, "unknown")
}
