package fixture

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	categories := `[{"Id": null, "Name": "Books"}, {"Id": null, "Name": "Games"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "category-generated.json"), []byte(categories), 0644))

	products := `[{"Id": null, "Title": "Widget", "CategoryId": 1}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "product-generated.json"), []byte(products), 0644))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an artifact"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken-generated.json"), []byte("{oops"), 0644))

	return dir
}

func TestServerLoadsArtifacts(t *testing.T) {
	srv, err := NewServer(fixtureDir(t), 4000)
	require.NoError(t, err)

	assert.Equal(t, []string{"category", "product"}, srv.Routes(),
		"Expected one route per parseable artifact")
}

func TestCollectionRoute(t *testing.T) {
	srv, err := NewServer(fixtureDir(t), 4000)
	require.NoError(t, err)

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/category", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode, "Expected 200, got %d", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Books", records[0]["Name"])

	resp, err = srv.app.Test(httptest.NewRequest("GET", "/api/Category", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode, "Expected entity lookup to ignore case")

	resp, err = srv.app.Test(httptest.NewRequest("GET", "/api/unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode, "Expected 404 for an unknown entity")
}

func TestRecordRoute(t *testing.T) {
	srv, err := NewServer(fixtureDir(t), 4000)
	require.NoError(t, err)

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/category/1", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var record map[string]any
	require.NoError(t, json.Unmarshal(body, &record))
	assert.Equal(t, "Games", record["Name"], "Expected the record at index 1")

	resp, err = srv.app.Test(httptest.NewRequest("GET", "/api/category/9", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode, "Expected 404 for an out-of-range index")
}

func TestIndexRoute(t *testing.T) {
	srv, err := NewServer(fixtureDir(t), 4000)
	require.NoError(t, err)

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var index struct {
		Collections []struct {
			Entity string `json:"entity"`
			Path   string `json:"path"`
			Count  int    `json:"count"`
		} `json:"collections"`
	}
	require.NoError(t, json.Unmarshal(body, &index))
	require.Len(t, index.Collections, 2)
	assert.Equal(t, "category", index.Collections[0].Entity)
	assert.Equal(t, "/api/category", index.Collections[0].Path)
	assert.Equal(t, 2, index.Collections[0].Count)
}
