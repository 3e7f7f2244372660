package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
)

// MemoryProfileRepository in-memory таблица цветов и классов объектов
type MemoryProfileRepository struct {
	mu      sync.RWMutex
	colors  map[string]entity.ColorRange
	classes map[string]entity.ObjectClassProfile
}

// NewMemoryProfileRepository создаёт пустую таблицу профилей
func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{
		colors:  make(map[string]entity.ColorRange),
		classes: make(map[string]entity.ObjectClassProfile),
	}
}

// Color возвращает копию диапазона, чтобы вызывающий не мог изменить таблицу
func (r *MemoryProfileRepository) Color(name string) (entity.ColorRange, error) {
	r.mu.RLock()
	rng, exists := r.colors[key(name)]
	r.mu.RUnlock()

	if !exists {
		return entity.ColorRange{}, fmt.Errorf("%w: %q", entity.ErrUnknownColor, name)
	}
	rng.Pairs = append([]entity.HSVPair(nil), rng.Pairs...)
	return rng, nil
}

// Class возвращает профиль класса по имени
func (r *MemoryProfileRepository) Class(name string) (entity.ObjectClassProfile, error) {
	r.mu.RLock()
	profile, exists := r.classes[key(name)]
	r.mu.RUnlock()

	if !exists {
		return entity.ObjectClassProfile{}, fmt.Errorf("%w: %q", entity.ErrUnknownClass, name)
	}
	return profile, nil
}

// PutColor проверяет и сохраняет диапазон, заменяя запись с тем же именем
func (r *MemoryProfileRepository) PutColor(rng entity.ColorRange) error {
	if err := rng.Validate(); err != nil {
		return err
	}
	rng.Pairs = append([]entity.HSVPair(nil), rng.Pairs...)

	r.mu.Lock()
	r.colors[key(rng.Name)] = rng
	r.mu.Unlock()

	return nil
}

// PutClass проверяет и сохраняет профиль класса
func (r *MemoryProfileRepository) PutClass(profile entity.ObjectClassProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.classes[key(profile.Name)] = profile
	r.mu.Unlock()

	return nil
}

// Colors возвращает отсортированные имена цветов
func (r *MemoryProfileRepository) Colors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.colors))
	for _, rng := range r.colors {
		names = append(names, rng.Name)
	}
	sort.Strings(names)
	return names
}

// Classes возвращает отсортированные имена классов
func (r *MemoryProfileRepository) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for _, p := range r.classes {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// Имена сравниваются без учёта регистра: "red" и "RED" считаются одним цветом.
func key(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Проверка реализации интерфейса
var _ port.ProfileRepository = (*MemoryProfileRepository)(nil)
