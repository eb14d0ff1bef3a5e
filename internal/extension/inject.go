package extension

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/flykit-labs/flykit/internal/logging"
)

// InjectionPoint selects when a script runs in a page.
type InjectionPoint int

const (
	InjectDocumentCreation InjectionPoint = iota
	InjectDocumentReady
	InjectDeferred
)

// World selects the JavaScript world a script runs in.
type World int

const (
	WorldMain World = iota
	WorldIsolated
)

// Script is a user script registered with a render surface.
type Script struct {
	Name           string
	Source         string
	InjectionPoint InjectionPoint
	World          World
	SubFrames      bool
}

// Surface is the host render surface scripts are registered with.
type Surface interface {
	AddScript(Script) error
}

// Injector keeps a surface's script registrations in step with the
// registry. Registered scripts cannot be revoked: a removed extension keeps
// running until the surface restarts.
type Injector struct {
	registry *Registry
	surface  Surface
	logger   *zap.Logger

	mu         sync.Mutex
	registered map[string]struct{}
	warned     map[string]struct{}
}

// NewInjector creates an injector for registry feeding surface.
func NewInjector(registry *Registry, surface Surface, logger *zap.Logger) *Injector {
	return &Injector{
		registry:   registry,
		surface:    surface,
		logger:     logging.OrNop(logger),
		registered: make(map[string]struct{}),
		warned:     make(map[string]struct{}),
	}
}

// ExtensionScript builds the registration for ext's payload.
func ExtensionScript(ext Extension, source string) Script {
	return Script{
		Name:           ext.ID,
		Source:         source,
		InjectionPoint: InjectDocumentReady,
		World:          WorldMain,
		SubFrames:      true,
	}
}

// Refresh registers the content script of every extension not registered
// yet and returns the ids that are registered but no longer installed.
// Errors from individual extensions are joined; the rest still register.
func (i *Injector) Refresh() ([]string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	present := make(map[string]struct{})
	var errs []error
	for ext := range i.registry.All() {
		present[ext.ID] = struct{}{}
		if _, ok := i.registered[ext.ID]; ok || !ext.HasScript() {
			continue
		}
		if err := i.register(ext); err != nil {
			errs = append(errs, err)
			continue
		}
		i.registered[ext.ID] = struct{}{}
	}

	var stale []string
	for id := range i.registered {
		if _, ok := present[id]; ok {
			delete(i.warned, id)
			continue
		}
		stale = append(stale, id)
		if _, ok := i.warned[id]; !ok {
			i.warned[id] = struct{}{}
			i.logger.Warn("removed extension stays active until restart", zap.String("id", id))
		}
	}
	slices.Sort(stale)
	return stale, errors.Join(errs...)
}

// Registered returns the registered extension ids in order.
func (i *Injector) Registered() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	ids := make([]string, 0, len(i.registered))
	for id := range i.registered {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (i *Injector) register(ext Extension) error {
	source, err := ext.Script()
	if err != nil {
		return err
	}
	if err := Lint(ext.ID, source); err != nil {
		i.logger.Warn("content script does not parse", zap.String("id", ext.ID), zap.Error(err))
	}
	if err := i.surface.AddScript(ExtensionScript(ext, source)); err != nil {
		return fmt.Errorf("registering script for %q: %w", ext.ID, err)
	}
	i.logger.Debug("content script registered", zap.String("id", ext.ID))
	return nil
}

// Lint parses source as a script. Page engines accept more syntax than
// the parser, so callers only warn on failure.
func Lint(name, source string) error {
	if _, err := goja.Compile(name, source, false); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}
