package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalogquery/domain"
	"catalogquery/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestApp returns an app with an in-memory store and a silent logger.
func newTestApp(t *testing.T) *app {
	t.Helper()
	a := newApp()
	a.store = store.NewInMemoryStore()
	a.logger = zap.NewNop()
	a.in = bufio.NewReader(strings.NewReader(""))
	return a
}

// run executes one command line against a and returns what it printed.
// Persistent flags are bound into a.v by the first tree only, so an app must
// not be reused across runs that pass different persistent flags.
func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seedPhones(t *testing.T, a *app) {
	t.Helper()
	require.NoError(t, a.store.BulkImport(context.Background(), []domain.Item{
		{ID: "p15", Name: "iPhone 15", Price: 999, Category: "Phones", Rating: 4.5, InStock: true},
		{ID: "p14", Name: "iPhone 14", Price: 799, Category: "Phones", Rating: 4.3, InStock: true},
		{ID: "gx", Name: "Galaxy", Price: 899, Category: "Phones", Rating: 4.4, InStock: true},
		{ID: "mug", Name: "Mug", Price: 9, Category: "Kitchen", Rating: 3, InStock: false},
	}))
}

func TestCreateGetUpdateDelete(t *testing.T) {
	a := newTestApp(t)

	out, err := run(t, a, "create",
		"--name", "TestItem",
		"--price", "5.5",
		"--category", "T",
		"--rating", "4",
		"--in-stock",
		"--tags", "a,b")
	require.NoError(t, err)

	var created domain.Item
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"a", "b"}, created.Tags)
	assert.True(t, created.InStock)

	out, err = run(t, a, "get", created.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "TestItem")

	out, err = run(t, a, "list")
	require.NoError(t, err)
	assert.Contains(t, out, created.ID)

	out, err = run(t, a, "update", created.ID, "--price", "7.75")
	require.NoError(t, err)
	var updated domain.Item
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, 7.75, updated.Price)
	assert.Equal(t, "TestItem", updated.Name)

	_, err = run(t, a, "update", created.ID, "--rating", "9")
	assert.True(t, domain.IsInvalidItemError(err))

	_, err = run(t, a, "delete", "--force", created.ID)
	require.NoError(t, err)
	_, err = a.store.Get(context.Background(), created.ID)
	assert.True(t, domain.IsItemNotFoundError(err))
}

func TestCreateRequiresName(t *testing.T) {
	_, err := run(t, newTestApp(t), "create", "--price", "1")
	assert.EqualError(t, err, "name required")
}

func TestGetMissingItemIsNotAnError(t *testing.T) {
	out, err := run(t, newTestApp(t), "get", "nope")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDeleteAbortsWithoutConfirmation(t *testing.T) {
	a := newTestApp(t)
	seedPhones(t, a)
	a.in = bufio.NewReader(strings.NewReader("n\n"))

	out, err := run(t, a, "delete", "mug")
	require.NoError(t, err)
	assert.Contains(t, out, "aborted")
	_, err = a.store.Get(context.Background(), "mug")
	assert.NoError(t, err)
}

func TestSearch_JSONOutput(t *testing.T) {
	a := newTestApp(t)
	seedPhones(t, a)

	out, err := run(t, a, "search", "--search", "phone", "--sort", "price", "--output", "json")
	require.NoError(t, err)

	var res searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Items, 2)
	assert.Equal(t, "iPhone 14", res.Items[0].Name)
	assert.Equal(t, "iPhone 15", res.Items[1].Name)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.PageCount)
}

func TestSearch_PositionalTermAndFilters(t *testing.T) {
	a := newTestApp(t)
	seedPhones(t, a)

	out, err := run(t, a, "search", "--category", "Phones", "--min-rating", "4.4", "--sort", "rating", "--output", "json")
	require.NoError(t, err)
	var res searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Items, 2)
	assert.Equal(t, "iPhone 15", res.Items[0].Name)
	assert.Equal(t, "Galaxy", res.Items[1].Name)

	out, err = run(t, a, "search", "MUG", "--output", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Items, 1)
	assert.Equal(t, "mug", res.Items[0].ID)
}

func TestSearch_TablePaging(t *testing.T) {
	a := newTestApp(t)
	seedPhones(t, a)

	out, err := run(t, a, "search", "--sort", "name", "--page-size", "3", "--page", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "mug |"))
	assert.Equal(t, "4 items found, page 2 of 2", lines[1])

	a = newTestApp(t)
	seedPhones(t, a)
	out, err = run(t, a, "search", "--page", "9")
	require.NoError(t, err)
	assert.Equal(t, "4 items found, page 9 of 1\n", out)
}

func TestShell_PageSizeDoesNotCarryToNextLine(t *testing.T) {
	a := newTestApp(t)
	seedPhones(t, a)
	a.in = bufio.NewReader(strings.NewReader("search --page-size 1\nsearch\nquit\n"))

	out, err := run(t, a, "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "4 items found, page 1 of 4\n")
	assert.Contains(t, out, "4 items found, page 1 of 1\n")
}

func TestSearch_InvalidInput(t *testing.T) {
	a := newTestApp(t)

	_, err := run(t, a, "search", "--sort", "popularity")
	assert.True(t, domain.IsInvalidQueryError(err))

	_, err = run(t, a, "search", "--page", "0")
	assert.True(t, domain.IsInvalidQueryError(err))

	_, err = run(t, a, "search", "--page-size", "0")
	assert.True(t, domain.IsInvalidQueryError(err))

	_, err = run(t, newTestApp(t), "search", "--output", "xml")
	assert.True(t, domain.IsInvalidQueryError(err))
}

func TestList_OutputFormats(t *testing.T) {
	a := newTestApp(t)
	seedPhones(t, a)

	out, err := run(t, a, "list", "--output", "table")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "p15 | iPhone 15 |"))

	out, err = run(t, a, "list", "--output", "json")
	require.NoError(t, err)
	var items []domain.Item
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 4)

	_, err = run(t, a, "list", "--output", "xml")
	assert.True(t, domain.IsInvalidQueryError(err))
}

func TestSearch_ConfiguredPriceBounds(t *testing.T) {
	pricey := []domain.Item{{ID: "rack", Name: "Server Rack", Price: 25000}}

	a := newTestApp(t)
	require.NoError(t, a.store.BulkImport(context.Background(), pricey))
	out, err := run(t, a, "search")
	require.NoError(t, err)
	assert.Contains(t, out, "0 items found")

	a = newTestApp(t)
	require.NoError(t, a.store.BulkImport(context.Background(), pricey))
	out, err = run(t, a, "--price-max", "50000", "search")
	require.NoError(t, err)
	assert.Contains(t, out, "1 item found")

	out, err = run(t, newTestApp(t), "search", "--max-price", "50000")
	require.NoError(t, err)
	assert.Contains(t, out, "0 items found")
}

func TestSearch_PageSizeFromEnvAndConfig(t *testing.T) {
	t.Run("env", func(t *testing.T) {
		t.Setenv("CATALOG_PAGE_SIZE", "1")
		a := newTestApp(t)
		seedPhones(t, a)
		out, err := run(t, a, "search")
		require.NoError(t, err)
		assert.Contains(t, out, "page 1 of 4")
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("page-size: 2\n"), 0o644))
		a := newTestApp(t)
		seedPhones(t, a)
		out, err := run(t, a, "--config", path, "search")
		require.NoError(t, err)
		assert.Contains(t, out, "page 1 of 2")
	})
}

func TestSearch_WorkersMatchInline(t *testing.T) {
	a := newTestApp(t)
	_, err := run(t, a, "seed", "--count", "300", "--seed", "5")
	require.NoError(t, err)

	inline, err := run(t, a, "search", "pro", "--sort", "price", "--all", "--output", "json")
	require.NoError(t, err)
	parallel, err := run(t, a, "search", "pro", "--sort", "price", "--all", "--output", "json", "--workers", "4")
	require.NoError(t, err)
	assert.JSONEq(t, inline, parallel)
}

func TestCategories(t *testing.T) {
	a := newTestApp(t)
	seedPhones(t, a)
	out, err := run(t, a, "categories")
	require.NoError(t, err)
	assert.Equal(t, "all\nKitchen\nPhones\n", out)
}

func TestSeed(t *testing.T) {
	a := newTestApp(t)
	out, err := run(t, a, "seed", "--count", "25")
	require.NoError(t, err)
	assert.Equal(t, "seeded 25 items\n", out)
	items, err := a.store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 25)
}

func TestShell_ReusesCachedResults(t *testing.T) {
	a := newTestApp(t)
	seedPhones(t, a)
	a.in = bufio.NewReader(strings.NewReader(
		"search phone\n\nsearch phone\ncreate --name Phone-Case --price 5\nsearch phone\nbogus\nquit\n"))

	out, err := run(t, a, "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "2 items found")
	assert.Contains(t, out, "3 items found")

	require.NotNil(t, a.memo)
	hits, misses := a.memo.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(2), misses)
}

func TestShell_EndOfInput(t *testing.T) {
	a := newTestApp(t)
	a.in = bufio.NewReader(strings.NewReader("seed --count 3"))
	_, err := run(t, a, "shell")
	require.NoError(t, err)
	items, _ := a.store.List(context.Background())
	assert.Len(t, items, 3)
}
