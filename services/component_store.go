package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"catalog-keeper/internal/logger"
	"catalog-keeper/internal/models"

	"github.com/jinzhu/copier"
)

/**
 * Component store: validated, file-backed catalog of component definitions
 * @description
 * - The whole catalog lives in memory and mirrors one JSON object on disk
 * - Every mutation runs validate -> mutate -> persist under one write lock
 * - A failed persist rolls the in-memory change back
 */
type ComponentStore struct {
	path       string
	components models.Catalog
	validator  *componentValidator
	mu         sync.RWMutex
}

// StoreStats summarizes the catalog.
type StoreStats struct {
	Components   int
	UIComponents int
	ReverseProxy string
}

/**
 * Load component store from the backing document
 * @param {string} path - Path of the JSON catalog document
 * @returns {*ComponentStore} Loaded store
 * @returns {error} *LoadError if the document exists but is unreadable or not a JSON object
 * @description
 * - A missing document yields an empty store; use EnsureDocument to materialize it
 * - Catalog rules are not enforced on load, see Verify
 */
func LoadComponentStore(path string) (*ComponentStore, error) {
	store := &ComponentStore{
		path:       path,
		components: models.Catalog{},
		validator:  newComponentValidator(),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warnf("File '%s' not found, starting with empty data.", path)
		setStoreSize(0)
		return store, nil
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	catalog, err := decodeCatalog(path, data)
	if err != nil {
		return nil, err
	}
	store.components = catalog
	setStoreSize(len(catalog))
	logger.Infof("Loaded %d components from '%s'", len(catalog), path)
	return store, nil
}

func decodeCatalog(path string, data []byte) (models.Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, &LoadError{Path: path, Offset: dec.InputOffset(), Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &LoadError{Path: path, Err: errors.New("file does not contain a valid JSON object")}
	}

	// Unmarshal validates the whole document first, so syntax offsets are file positions.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		loadErr := &LoadError{Path: path, Err: err}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			loadErr.Offset = syntaxErr.Offset
		}
		return nil, loadErr
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	catalog := make(models.Catalog, len(raw))
	for _, id := range ids {
		var comp models.Component
		if err := json.Unmarshal(raw[id], &comp); err != nil {
			return nil, &LoadError{
				Path:   path,
				Offset: recordOffset(data, id),
				Err:    fmt.Errorf("component '%s': %w", id, err),
			}
		}
		catalog[id] = comp
	}
	return catalog, nil
}

// recordOffset returns the file offset just past the key of record id.
// data must be a syntactically valid JSON object.
func recordOffset(data []byte, id string) int64 {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return 0
	}
	var offset int64
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return offset
		}
		if key, _ := tok.(string); key == id {
			offset = dec.InputOffset()
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return offset
		}
	}
	return offset
}

/**
 * Create an empty catalog document if none exists
 * @param {string} path - Path of the JSON catalog document
 * @returns {bool} True when the document was created
 * @returns {error} *PersistError if the document cannot be written
 */
func EnsureDocument(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, &PersistError{Path: path, Err: err}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, &PersistError{Path: path, Err: err}
		}
	}
	if err := writeFileAtomic(path, []byte("{}\n")); err != nil {
		return false, err
	}
	logger.Infof("'%s' not found, created an empty catalog.", path)
	return true, nil
}

// Path returns the backing document path.
func (s *ComponentStore) Path() string {
	return s.path
}

// GetAll returns a deep copy of the catalog.
func (s *ComponentStore) GetAll() models.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(models.Catalog, len(s.components))
	for id, c := range s.components {
		out[id] = cloneComponent(c)
	}
	return out
}

// Get returns a copy of the component and whether it exists.
func (s *ComponentStore) Get(id string) (models.Component, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.components[id]
	if !ok {
		return models.Component{}, false
	}
	return cloneComponent(c), true
}

/**
 * Add a new component
 * @param {string} id - Component id, lowercase letters, digits and hyphens
 * @param {models.Component} c - Component definition
 * @returns {error} *ValidationError when a rule fails, *PersistError when saving fails
 * @description
 * - Checks run in order: id, UI port uniqueness, UI fields, reverse proxy, name
 * - Nothing is changed when a check fails
 */
func (s *ComponentStore) Create(id string, c models.Component) (err error) {
	defer func() { observeStoreOperation("create", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if verr := validateIdentifierFormat(id); verr != nil {
		return verr
	}
	if _, exists := s.components[id]; exists {
		return newValidationError(RuleIdentifier, id, "Component ID '%s' already exists.", id)
	}
	if verr := s.validateComponent(id, c, ""); verr != nil {
		logger.Debugf("Create '%s' rejected: %s", id, verr.Message)
		return verr
	}

	s.components[id] = cloneComponent(c)
	if err := s.persistLocked(); err != nil {
		delete(s.components, id)
		return err
	}
	setStoreSize(len(s.components))
	logger.Infof("Component '%s' created", id)
	return nil
}

/**
 * Replace an existing component wholesale
 * @param {string} id - Id of the component to replace
 * @param {models.Component} c - New definition
 * @returns {error} *ValidationError when the id is unknown or a rule fails, *PersistError when saving fails
 * @description
 * - Uniqueness and reverse proxy checks skip the component being edited
 */
func (s *ComponentStore) Update(id string, c models.Component) (err error) {
	defer func() { observeStoreOperation("update", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if verr := validateIdentifierFormat(id); verr != nil {
		return verr
	}
	prev, exists := s.components[id]
	if !exists {
		return newValidationError(RuleNotFound, id, "Component ID '%s' does not exist.", id)
	}
	if verr := s.validateComponent(id, c, id); verr != nil {
		logger.Debugf("Update '%s' rejected: %s", id, verr.Message)
		return verr
	}

	s.components[id] = cloneComponent(c)
	if err := s.persistLocked(); err != nil {
		s.components[id] = prev
		return err
	}
	logger.Infof("Component '%s' updated", id)
	return nil
}

/**
 * Remove a component
 * @param {string} id - Id of the component to remove
 * @returns {error} *ValidationError when the id is unknown, *PersistError when saving fails
 */
func (s *ComponentStore) Delete(id string) (err error) {
	defer func() { observeStoreOperation("delete", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.components[id]
	if !exists {
		return newValidationError(RuleNotFound, id, "Component ID '%s' not found for deletion.", id)
	}

	delete(s.components, id)
	if err := s.persistLocked(); err != nil {
		s.components[id] = prev
		return err
	}
	setStoreSize(len(s.components))
	logger.Infof("Component '%s' deleted", id)
	return nil
}

// Persist writes the whole catalog to the backing document.
func (s *ComponentStore) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

/**
 * Check every catalog rule over the whole store
 * @returns {[]*ValidationError} All violations, ordered by component id, empty when the catalog is valid
 * @description
 * - Used for documents edited outside this program, which Load accepts as-is
 * - A port or reverse proxy clash is reported once for each side
 */
func (s *ComponentStore) Verify() []*ValidationError {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var violations []*ValidationError
	for _, id := range s.sortedIDs() {
		if verr := validateIdentifierFormat(id); verr != nil {
			violations = append(violations, verr)
		}
		for _, verr := range s.componentChecks(id, s.components[id], id) {
			if verr != nil {
				violations = append(violations, verr)
			}
		}
	}
	return violations
}

// Stats returns catalog counters.
func (s *ComponentStore) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := StoreStats{Components: len(s.components)}
	for _, id := range s.sortedIDs() {
		c := s.components[id]
		if c.HasUI() {
			stats.UIComponents++
		}
		if c.IsReverseProxy && stats.ReverseProxy == "" {
			stats.ReverseProxy = id
		}
	}
	return stats
}

// validateComponent returns the first failing rule for c, evaluated as if stored under id.
func (s *ComponentStore) validateComponent(id string, c models.Component, exclude string) *ValidationError {
	for _, verr := range s.componentChecks(id, c, exclude) {
		if verr != nil {
			return verr
		}
	}
	return nil
}

// componentChecks evaluates every record-level rule in reporting order.
func (s *ComponentStore) componentChecks(id string, c models.Component, exclude string) []*ValidationError {
	results := validateFieldTypes(id, c)
	if c.UI != nil {
		results = append(results, s.checkPortUnique(id, c, exclude))
		results = append(results, s.validator.validateUI(id, c.UI))
	}
	results = append(results, s.checkReverseProxy(id, c, exclude))
	results = append(results, validateName(id, c))
	return results
}

func (s *ComponentStore) checkPortUnique(id string, c models.Component, exclude string) *ValidationError {
	if c.UI == nil || c.UI.Port == nil {
		return nil
	}
	port := *c.UI.Port
	other, found := s.findOther(exclude, func(o models.Component) bool {
		return o.UI != nil && o.UI.Port != nil && *o.UI.Port == port
	})
	if !found {
		return nil
	}
	return &ValidationError{
		Rule:     RuleUIPortConflict,
		ID:       id,
		Field:    "ui_port",
		Conflict: other,
		Message:  fmt.Sprintf("UI port %d is already in use by component '%s'. Ports must be unique.", port, other),
	}
}

func (s *ComponentStore) checkReverseProxy(id string, c models.Component, exclude string) *ValidationError {
	if !c.IsReverseProxy {
		return nil
	}
	other, found := s.findOther(exclude, func(o models.Component) bool {
		return o.IsReverseProxy
	})
	if !found {
		return nil
	}
	return &ValidationError{
		Rule:     RuleReverseProxy,
		ID:       id,
		Field:    "is_reverse_proxy",
		Conflict: other,
		Message: fmt.Sprintf("Component '%s' is already selected as a reverse proxy. "+
			"Maximum one reverse proxy allowed.", other),
	}
}

// findOther returns the first id, in sorted order, other than exclude whose component matches.
func (s *ComponentStore) findOther(exclude string, match func(models.Component) bool) (string, bool) {
	for _, id := range s.sortedIDs() {
		if id == exclude {
			continue
		}
		if match(s.components[id]) {
			return id, true
		}
	}
	return "", false
}

func (s *ComponentStore) sortedIDs() []string {
	ids := make([]string, 0, len(s.components))
	for id := range s.components {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *ComponentStore) persistLocked() error {
	data, err := json.MarshalIndent(s.components, "", "  ")
	if err != nil {
		return &PersistError{Path: s.path, Err: err}
	}
	return writeFileAtomic(s.path, append(data, '\n'))
}

/**
 * Write data to path so readers see either the old or the new document
 * @description
 * - Writes a temporary file next to path, syncs and closes it, then renames it over path
 * - The temporary file is removed on any failure
 * - Keeps the mode of an existing document, 0644 otherwise
 */
func writeFileAtomic(path string, data []byte) (err error) {
	mode := fs.FileMode(0644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return &PersistError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return &PersistError{Path: path, Err: err}
	}
	if err = tmp.Sync(); err != nil {
		return &PersistError{Path: path, Err: err}
	}
	if err = tmp.Chmod(mode); err != nil {
		return &PersistError{Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &PersistError{Path: path, Err: err}
	}
	if err = os.Rename(tmpName, path); err != nil {
		return &PersistError{Path: path, Err: err}
	}
	return nil
}

func cloneComponent(c models.Component) models.Component {
	var out models.Component
	if err := copier.CopyWithOption(&out, &c, copier.Option{DeepCopy: true}); err != nil {
		logger.Errorf("Copy component '%s' failed: %v", c.Name, err)
		return c
	}
	return out
}
