package services

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"catalog-keeper/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func plain(name string) models.Component {
	return models.Component{Name: name}
}

func withUI(name string, port int) models.Component {
	return models.Component{
		Name: name,
		UI:   models.NewUISettings(port, models.ProtocolHTTP, "mdi-web", "Network", "", false),
	}
}

// newTestStore 在临时目录中创建空的组件目录
func newTestStore(t *testing.T) (*ComponentStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "components_metadata.json")
	store, err := LoadComponentStore(path)
	require.NoError(t, err)
	return store, path
}

func readDocument(t *testing.T, path string) map[string]map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func requireRule(t *testing.T, err error, rule string) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	require.Equal(t, rule, verr.Rule)
	return verr
}

var componentCmp = cmpopts.EquateEmpty()

func TestLoadMissingFileGivesEmptyStore(t *testing.T) {
	store, path := newTestStore(t)
	assert.Empty(t, store.GetAll())
	assert.Equal(t, path, store.Path())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "loading must not create the document")
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"syntax", `{"nginx": {"name": "Nginx",}`},
		{"array", `[1, 2, 3]`},
		{"string", `"components"`},
		{"record not object", `{"nginx": 5}`},
		{"record null", `{"nginx": null}`},
		{"empty file", ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "components_metadata.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0644))

			store, err := LoadComponentStore(path)
			assert.Nil(t, store)
			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected LoadError, got %v", err)
			assert.Equal(t, path, loadErr.Path)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLoadSyntaxErrorReportsOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "components_metadata.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nginx": {"name": "Nginx",}}`), 0644))

	_, err := LoadComponentStore(path)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Greater(t, loadErr.Offset, int64(0))
	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestLoadRecordErrorReportsFileOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "components_metadata.json")
	content := `{"a": {"name": "A"}, "nginx": 5}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadComponentStore(path)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, int64(strings.Index(content, `"nginx"`)+len(`"nginx"`)), loadErr.Offset)
	assert.Contains(t, err.Error(), "component 'nginx'")
}

func TestLoadKeepsMistypedValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		field   string
		message string
	}{
		{"float port", `{"a": {"name": "A", "has_ui": true, "ui_port": 80.0}}`, "ui_port",
			"UI Port must be an integer between 1 and 65535."},
		{"string port", `{"a": {"name": "A", "has_ui": true, "ui_port": "8080"}}`, "ui_port",
			"UI Port must be an integer between 1 and 65535."},
		{"string has_ui", `{"a": {"name": "A", "has_ui": "yes"}}`, "has_ui",
			"Field 'has_ui' has a value of the wrong type."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "components_metadata.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0644))

			store, err := LoadComponentStore(path)
			require.NoError(t, err)
			require.Len(t, store.GetAll(), 1)

			violations := store.Verify()
			require.NotEmpty(t, violations)
			assert.Equal(t, RuleFieldType, violations[0].Rule)
			assert.Equal(t, "a", violations[0].ID)
			assert.Equal(t, tc.field, violations[0].Field)
			assert.Equal(t, tc.message, violations[0].Message)

			// An unrelated mutation rewrites the record without losing the value.
			require.NoError(t, store.Create("b", plain("B")))
			var original, written map[string]map[string]json.RawMessage
			require.NoError(t, json.Unmarshal([]byte(tc.content), &original))
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(data, &written))
			assert.JSONEq(t, string(original["a"][tc.field]), string(written["a"][tc.field]))
		})
	}
}

func TestCreateRejectsMistypedValue(t *testing.T) {
	store, _ := newTestStore(t)
	var comp models.Component
	require.NoError(t, json.Unmarshal([]byte(`{"name": "A", "has_ui": true, "ui_port": "80",
		"protocol": "http", "icon": "i", "dashy_tile_section": "s", "dashy_tile_url_suffix": ""}`), &comp))

	verr := requireRule(t, store.Create("a", comp), RuleFieldType)
	assert.Equal(t, "ui_port", verr.Field)
	assert.Empty(t, store.GetAll())
}

func TestUIKeysOfComponentWithoutUISurviveRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "components_metadata.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"a": {"name": "A", "has_ui": false, "ui_port": 8080, "icon": "i"}}`), 0644))

	store, err := LoadComponentStore(path)
	require.NoError(t, err)
	assert.Empty(t, store.Verify())
	require.NoError(t, store.Create("b", withUI("B", 8080)), "port of a component without UI is free")

	doc := readDocument(t, path)
	assert.Equal(t, false, doc["a"]["has_ui"])
	assert.Equal(t, float64(8080), doc["a"]["ui_port"])
	assert.Equal(t, "i", doc["a"]["icon"])
}

func TestLoadDoesNotEnforceRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "components_metadata.json")
	doc := `{
  "a": {"name": "A", "is_reverse_proxy": true},
  "b": {"name": "B", "is_reverse_proxy": true},
  "Bad_ID": {"name": ""}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	store, err := LoadComponentStore(path)
	require.NoError(t, err)
	assert.Len(t, store.GetAll(), 3)
}

func TestEnsureDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "components_metadata.json")

	created, err := EnsureDocument(path)
	require.NoError(t, err)
	assert.True(t, created)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	require.NoError(t, os.WriteFile(path, []byte(`{"x": {"name": "X"}}`), 0644))
	created, err = EnsureDocument(path)
	require.NoError(t, err)
	assert.False(t, created)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": {"name": "X"}}`, string(data), "existing document must be left untouched")
}

func TestCreateThenGet(t *testing.T) {
	store, path := newTestStore(t)
	comp := withUI("Nginx", 80)
	comp.Description = "Web server"
	comp.DefaultSelected = true

	require.NoError(t, store.Create("nginx", comp))

	got, ok := store.Get("nginx")
	require.True(t, ok)
	if diff := cmp.Diff(comp, got, componentCmp); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	doc := readDocument(t, path)
	require.Contains(t, doc, "nginx")
	assert.Equal(t, "Nginx", doc["nginx"]["name"])
	assert.Equal(t, true, doc["nginx"]["has_ui"])
	assert.Equal(t, float64(80), doc["nginx"]["ui_port"])
	assert.Equal(t, "", doc["nginx"]["dashy_tile_url_suffix"])
}

func TestPersistedDocumentRoundTrips(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, store.Create("nginx", withUI("Nginx", 80)))
	require.NoError(t, store.Create("postgres", plain("Postgres")))

	reloaded, err := LoadComponentStore(path)
	require.NoError(t, err)
	if diff := cmp.Diff(store.GetAll(), reloaded.GetAll(), componentCmp); diff != "" {
		t.Errorf("reloaded catalog mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, reloaded.Verify())
}

func TestPersistUsesIndentedDocument(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, store.Create("postgres", plain("Postgres")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"postgres\": {\n    "), string(data))
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
}

func TestIdentifierRules(t *testing.T) {
	cases := []struct {
		id      string
		message string
	}{
		{"", "Component ID cannot be empty."},
		{"Nginx", "Component ID can only contain lowercase letters, numbers, and hyphens."},
		{"my_app", "Component ID can only contain lowercase letters, numbers, and hyphens."},
		{"my app", "Component ID can only contain lowercase letters, numbers, and hyphens."},
		{"app.v2", "Component ID can only contain lowercase letters, numbers, and hyphens."},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			store, _ := newTestStore(t)
			err := store.Create(tc.id, plain("App"))
			verr := requireRule(t, err, RuleIdentifier)
			assert.Equal(t, tc.message, verr.Message)
			assert.Empty(t, store.GetAll())
		})
	}

	store, _ := newTestStore(t)
	for _, id := range []string{"a", "app-2", "0", "---"} {
		assert.NoError(t, store.Create(id, plain("App")), id)
	}
}

func TestCreateDuplicateID(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Create("nginx", plain("Nginx")))

	err := store.Create("nginx", plain("Other"))
	verr := requireRule(t, err, RuleIdentifier)
	assert.Equal(t, "Component ID 'nginx' already exists.", verr.Message)

	got, _ := store.Get("nginx")
	assert.Equal(t, "Nginx", got.Name)
}

func TestCreateRequiresName(t *testing.T) {
	store, path := newTestStore(t)
	err := store.Create("nginx", plain(""))
	verr := requireRule(t, err, RuleName)
	assert.Equal(t, "Component name is required.", verr.Message)
	assert.Equal(t, "name", verr.Field)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "rejected mutation must not write the document")
}

func TestUIFieldRules(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(ui *models.UISettings)
		field   string
		message string
	}{
		{"missing port", func(ui *models.UISettings) { ui.Port = nil }, "ui_port",
			"UI Port is required if 'Has Web Interface' is selected."},
		{"port zero", func(ui *models.UISettings) { ui.Port = intPtr(0) }, "ui_port",
			"UI Port must be an integer between 1 and 65535."},
		{"port too large", func(ui *models.UISettings) { ui.Port = intPtr(65536) }, "ui_port",
			"UI Port must be an integer between 1 and 65535."},
		{"bad protocol", func(ui *models.UISettings) { ui.Protocol = "ftp" }, "protocol",
			"Protocol must be 'http' or 'https'."},
		{"missing protocol", func(ui *models.UISettings) { ui.Protocol = "" }, "protocol",
			"Protocol is required if 'Has Web Interface' is selected."},
		{"missing icon", func(ui *models.UISettings) { ui.Icon = "" }, "icon",
			"Icon is required if 'Has Web Interface' is selected."},
		{"missing section", func(ui *models.UISettings) { ui.Section = "" }, "dashy_tile_section",
			"Dashy Section is required if 'Has Web Interface' is selected."},
		{"absent url suffix", func(ui *models.UISettings) { ui.URLSuffix = nil }, "dashy_tile_url_suffix",
			"Dashy URL Suffix is required if 'Has Web Interface' is selected."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			comp := withUI("App", 8080)
			tc.mutate(comp.UI)

			err := store.Create("app", comp)
			verr := requireRule(t, err, RuleUIField)
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, tc.message, verr.Message)
			_, ok := store.Get("app")
			assert.False(t, ok)
		})
	}
}

func TestUIBoundaryPortsAccepted(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Create("low", withUI("Low", 1)))
	require.NoError(t, store.Create("high", withUI("High", 65535)))

	https := withUI("Secure", 443)
	https.UI.Protocol = models.ProtocolHTTPS
	https.UI.URLSuffix = strPtr("/admin")
	require.NoError(t, store.Create("secure", https))
}

func TestPortUniqueness(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Create("nginx", withUI("Nginx", 80)))

	err := store.Create("caddy", withUI("Caddy", 80))
	verr := requireRule(t, err, RuleUIPortConflict)
	assert.Equal(t, "UI port 80 is already in use by component 'nginx'. Ports must be unique.", verr.Message)
	assert.Equal(t, "nginx", verr.Conflict)

	// 无UI的组件不参与端口唯一性检查
	require.NoError(t, store.Create("postgres", plain("Postgres")))
}

func TestPortCheckedBeforeUIFields(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Create("nginx", withUI("Nginx", 80)))

	comp := withUI("Caddy", 80)
	comp.UI.Icon = ""
	requireRule(t, store.Create("caddy", comp), RuleUIPortConflict)
}

func TestPortOfDisabledUIIsFree(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Create("nginx", withUI("Nginx", 80)))
	require.NoError(t, store.Update("nginx", plain("Nginx")))

	assert.NoError(t, store.Create("caddy", withUI("Caddy", 80)))
}

func TestReverseProxyUniqueness(t *testing.T) {
	store, _ := newTestStore(t)
	traefik := plain("Traefik")
	traefik.IsReverseProxy = true
	require.NoError(t, store.Create("traefik", traefik))

	caddy := plain("Caddy")
	caddy.IsReverseProxy = true
	err := store.Create("caddy", caddy)
	verr := requireRule(t, err, RuleReverseProxy)
	assert.Equal(t, "Component 'traefik' is already selected as a reverse proxy. Maximum one reverse proxy allowed.", verr.Message)

	// 更新自身不会与自己冲突
	traefik.Description = "edge"
	require.NoError(t, store.Update("traefik", traefik))
}

func TestUpdateSelfExclusion(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Create("nginx", withUI("Nginx", 80)))

	comp := withUI("Nginx", 80)
	comp.Description = "same port, new description"
	require.NoError(t, store.Update("nginx", comp))

	got, _ := store.Get("nginx")
	assert.Equal(t, "same port, new description", got.Description)
}

func TestUpdateUnknownID(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Update("ghost", plain("Ghost"))
	verr := requireRule(t, err, RuleNotFound)
	assert.Equal(t, "Component ID 'ghost' does not exist.", verr.Message)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, store.GetAll())
}

func TestUpdateReplacesWholesale(t *testing.T) {
	store, path := newTestStore(t)
	comp := withUI("Nginx", 80)
	comp.Description = "old"
	require.NoError(t, store.Create("nginx", comp))

	require.NoError(t, store.Update("nginx", plain("Nginx 2")))

	got, _ := store.Get("nginx")
	if diff := cmp.Diff(plain("Nginx 2"), got, componentCmp); diff != "" {
		t.Errorf("Update() mismatch (-want +got):\n%s", diff)
	}
	doc := readDocument(t, path)
	assert.Equal(t, false, doc["nginx"]["has_ui"])
	assert.NotContains(t, doc["nginx"], "ui_port")
	assert.Equal(t, "", doc["nginx"]["description"])
}

func TestDelete(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, store.Create("nginx", withUI("Nginx", 80)))
	require.NoError(t, store.Delete("nginx"))

	_, ok := store.Get("nginx")
	assert.False(t, ok)
	assert.NotContains(t, readDocument(t, path), "nginx")

	err := store.Delete("nginx")
	verr := requireRule(t, err, RuleNotFound)
	assert.Equal(t, "Component ID 'nginx' not found for deletion.", verr.Message)
	assert.True(t, errors.Is(err, ErrNotFound))

	// 删除后端口可被复用
	require.NoError(t, store.Create("caddy", withUI("Caddy", 80)))
}

func TestGetAllReturnsCopies(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Create("nginx", withUI("Nginx", 80)))

	all := store.GetAll()
	c := all["nginx"]
	*c.UI.Port = 9999
	c.Name = "changed"
	all["nginx"] = c
	delete(all, "nginx")

	got, ok := store.Get("nginx")
	require.True(t, ok)
	assert.Equal(t, "Nginx", got.Name)
	assert.Equal(t, 80, got.UI.PortValue())
}

func TestCreateStoresCopyOfInput(t *testing.T) {
	store, _ := newTestStore(t)
	comp := withUI("Nginx", 80)
	require.NoError(t, store.Create("nginx", comp))

	*comp.UI.Port = 81
	got, _ := store.Get("nginx")
	assert.Equal(t, 80, got.UI.PortValue())
}

func TestExtraAttributesSurviveRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "components_metadata.json")
	doc := `{"grafana": {"name": "Grafana", "has_ui": false, "category": "monitoring", "tags": ["a", "b"]}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	store, err := LoadComponentStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Create("loki", plain("Loki")))

	written := readDocument(t, path)
	assert.Equal(t, "monitoring", written["grafana"]["category"])
	assert.Equal(t, []interface{}{"a", "b"}, written["grafana"]["tags"])
}

func TestFailedPersistRollsBack(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "components_metadata.json")
	store, err := LoadComponentStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Create("nginx", withUI("Nginx", 80)))

	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	err = store.Create("postgres", plain("Postgres"))
	var persistErr *PersistError
	require.True(t, errors.As(err, &persistErr), "expected PersistError, got %v", err)
	_, ok := store.Get("postgres")
	assert.False(t, ok, "failed create must be rolled back")

	err = store.Update("nginx", plain("Renamed"))
	require.True(t, IsPersistError(err))
	got, _ := store.Get("nginx")
	assert.Equal(t, "Nginx", got.Name, "failed update must be rolled back")

	err = store.Delete("nginx")
	require.True(t, IsPersistError(err))
	_, ok = store.Get("nginx")
	assert.True(t, ok, "failed delete must be rolled back")

	require.NoError(t, os.Chmod(dir, 0755))
	reloaded, err := LoadComponentStore(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"nginx"}, keys(reloaded.GetAll()))
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, store.Create("nginx", plain("Nginx")))
	require.NoError(t, store.Update("nginx", plain("Nginx 2")))
	require.NoError(t, store.Delete("nginx"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

func TestVerifyReportsAllViolations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "components_metadata.json")
	doc := `{
  "a": {"name": "A", "has_ui": true, "ui_port": 80, "protocol": "http", "icon": "i", "dashy_tile_section": "s", "dashy_tile_url_suffix": ""},
  "b": {"name": "B", "has_ui": true, "ui_port": 80, "protocol": "http", "icon": "i", "dashy_tile_section": "s", "dashy_tile_url_suffix": ""},
  "c": {"name": "", "is_reverse_proxy": true},
  "d": {"name": "D", "is_reverse_proxy": true},
  "E": {"name": "E"},
  "f": {"name": "F", "has_ui": true, "ui_port": 81, "protocol": "gopher", "icon": "i", "dashy_tile_section": "s", "dashy_tile_url_suffix": ""}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	store, err := LoadComponentStore(path)
	require.NoError(t, err)

	type finding struct{ ID, Rule string }
	var got []finding
	for _, v := range store.Verify() {
		got = append(got, finding{v.ID, v.Rule})
	}
	want := []finding{
		{"E", RuleIdentifier},
		{"a", RuleUIPortConflict},
		{"b", RuleUIPortConflict},
		{"c", RuleReverseProxy},
		{"c", RuleName},
		{"d", RuleReverseProxy},
		{"f", RuleUIField},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Verify() mismatch (-want +got):\n%s", diff)
	}
}

func TestVerifyValidCatalog(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Create("nginx", withUI("Nginx", 80)))
	require.NoError(t, store.Create("postgres", plain("Postgres")))
	assert.Empty(t, store.Verify())
}

func TestStats(t *testing.T) {
	store, _ := newTestStore(t)
	traefik := withUI("Traefik", 8080)
	traefik.IsReverseProxy = true
	require.NoError(t, store.Create("traefik", traefik))
	require.NoError(t, store.Create("postgres", plain("Postgres")))

	assert.Equal(t, StoreStats{Components: 2, UIComponents: 1, ReverseProxy: "traefik"}, store.Stats())
}

// 端到端场景：nginx与traefik
func TestNginxTraefikScenario(t *testing.T) {
	store, path := newTestStore(t)

	nginx := withUI("Nginx", 80)
	nginx.IsReverseProxy = true
	require.NoError(t, store.Create("nginx", nginx))

	traefik := withUI("Traefik", 80)
	traefik.IsReverseProxy = true
	requireRule(t, store.Create("traefik", traefik), RuleUIPortConflict)

	traefik.UI.Port = intPtr(8080)
	verr := requireRule(t, store.Create("traefik", traefik), RuleReverseProxy)
	assert.Contains(t, verr.Message, "'nginx'")

	nginx.IsReverseProxy = false
	require.NoError(t, store.Update("nginx", nginx))
	require.NoError(t, store.Create("traefik", traefik))

	reloaded, err := LoadComponentStore(path)
	require.NoError(t, err)
	assert.Equal(t, StoreStats{Components: 2, UIComponents: 2, ReverseProxy: "traefik"}, reloaded.Stats())
	assert.Empty(t, reloaded.Verify())
}

func TestConcurrentCreatesKeepPortsUnique(t *testing.T) {
	store, path := newTestStore(t)

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "app-" + string(rune('a'+i))
			errs[i] = store.Create(id, withUI("App", 3000))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			requireRule(t, err, RuleUIPortConflict)
		}
	}
	assert.Equal(t, 1, succeeded)

	reloaded, err := LoadComponentStore(path)
	require.NoError(t, err)
	assert.Len(t, reloaded.GetAll(), 1)
}

func keys(c models.Catalog) []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	return out
}
