// Package registry maintains the process-wide catalog of questionnaires:
// a mapping from instrument code to constructor, populated once at startup
// and read-only afterwards. Instantiated questionnaires are cached in an
// LRU so repeated scoring calls reuse the same immutable definition.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/psyq-catalog-server/internal/domain"
	"github.com/psyq-catalog-server/internal/loader"
	"github.com/psyq-catalog-server/internal/questionnaire"
)

// Constructor builds a questionnaire instance for a registered code.
type Constructor func() (*questionnaire.Questionnaire, error)

// instanceCacheSize bounds the LRU of instantiated questionnaires. The full
// catalog is ~150 instruments, so in practice everything stays resident.
const instanceCacheSize = 256

// Registry maps questionnaire codes (case-insensitive) to constructors.
// Registration happens once at startup; afterwards the registry is
// effectively read-only and safe for concurrent readers.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
	cache        *lru.Cache[string, *questionnaire.Questionnaire]
	logger       *logrus.Logger
}

// New creates an empty registry.
func New(logger *logrus.Logger) *Registry {
	if logger == nil {
		logger = logrus.New()
	}
	cache, err := lru.New[string, *questionnaire.Questionnaire](instanceCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(fmt.Sprintf("registry cache: %v", err))
	}
	return &Registry{
		constructors: make(map[string]Constructor),
		cache:        cache,
		logger:       logger,
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Register adds a constructor under the given code. Registering a code twice
// is a fatal configuration error: silently overriding one clinical
// instrument with another must never happen.
func (r *Registry) Register(code string, ctor Constructor) error {
	key := normalizeCode(code)
	if key == "" {
		return fmt.Errorf("%w: empty questionnaire code", domain.ErrInvalidDefinition)
	}
	if ctor == nil {
		return fmt.Errorf("%w: nil constructor for %s", domain.ErrInvalidDefinition, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[key]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, key)
	}
	r.constructors[key] = ctor

	r.logger.WithField("code", key).Debug("Questionnaire registered")
	return nil
}

// RegisterDefinition registers a loaded definition under its own code.
func (r *Registry) RegisterDefinition(def *domain.Definition) error {
	q, err := questionnaire.New(def)
	if err != nil {
		return err
	}
	return r.Register(def.Code, func() (*questionnaire.Questionnaire, error) {
		return q, nil
	})
}

// Get returns the constructor registered for the code, or nil.
func (r *Registry) Get(code string) Constructor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.constructors[normalizeCode(code)]
}

// Create instantiates the questionnaire registered under code, reusing a
// cached instance when available. Definitions are immutable, so sharing an
// instance across callers is safe.
func (r *Registry) Create(code string) (*questionnaire.Questionnaire, error) {
	key := normalizeCode(code)

	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}

	ctor := r.Get(key)
	if ctor == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}

	q, err := ctor()
	if err != nil {
		return nil, fmt.Errorf("instantiate questionnaire %s: %w", key, err)
	}

	r.cache.Add(key, q)
	return q, nil
}

// ListAll returns every registered code, sorted.
func (r *Registry) ListAll() []string {
	r.mu.RLock()
	codes := make([]string, 0, len(r.constructors))
	for code := range r.constructors {
		codes = append(codes, code)
	}
	r.mu.RUnlock()

	sort.Strings(codes)
	return codes
}

// ListByPathology returns the sorted codes of questionnaires targeting the
// given clinical domain. Instruments that fail to instantiate are skipped
// and logged rather than failing the whole enumeration.
func (r *Registry) ListByPathology(pathology domain.PathologyDomain) []string {
	var codes []string
	for _, code := range r.ListAll() {
		q, err := r.Create(code)
		if err != nil {
			r.logger.WithError(err).WithField("code", code).Warn("Skipping questionnaire during pathology listing")
			continue
		}
		if q.Definition().Pathology == pathology {
			codes = append(codes, code)
		}
	}
	return codes
}

// ListByVisitType returns the questionnaires administered at the given visit
// type, optionally filtered by pathology domain.
func (r *Registry) ListByVisitType(visitType string, pathology *domain.PathologyDomain) []*questionnaire.Questionnaire {
	var out []*questionnaire.Questionnaire
	for _, code := range r.ListAll() {
		q, err := r.Create(code)
		if err != nil {
			r.logger.WithError(err).WithField("code", code).Warn("Skipping questionnaire during visit listing")
			continue
		}
		def := q.Definition()
		if !def.AdministeredAt(visitType) {
			continue
		}
		if pathology != nil && def.Pathology != *pathology {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Metadata returns the catalog entry for a code without exposing the full
// question list.
func (r *Registry) Metadata(code string) (*domain.Metadata, error) {
	q, err := r.Create(code)
	if err != nil {
		return nil, err
	}
	md := q.Metadata()
	return &md, nil
}

// AllMetadata returns the catalog entries for every registered instrument,
// in code order.
func (r *Registry) AllMetadata() []domain.Metadata {
	var out []domain.Metadata
	for _, code := range r.ListAll() {
		md, err := r.Metadata(code)
		if err != nil {
			r.logger.WithError(err).WithField("code", code).Warn("Skipping questionnaire during catalog listing")
			continue
		}
		out = append(out, *md)
	}
	return out
}

// LoadDirectory discovers every definition file under dir and registers it.
// Any load or registration failure aborts the bootstrap: a partially
// populated catalog must not silently start serving.
func (r *Registry) LoadDirectory(dir string) (int, error) {
	defs, err := loader.Discover(dir)
	if err != nil {
		return 0, err
	}
	for _, def := range defs {
		if err := r.RegisterDefinition(def); err != nil {
			return 0, err
		}
	}

	r.logger.WithFields(logrus.Fields{
		"dir":   dir,
		"count": len(defs),
	}).Info("Questionnaire catalog loaded")
	return len(defs), nil
}

// Len returns the number of registered questionnaires.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.constructors)
}

// Reset clears all registrations and cached instances. Test isolation only;
// never called during normal operation.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.constructors = make(map[string]Constructor)
	r.mu.Unlock()
	r.cache.Purge()
}
