package port

import "pi-vision/internal/domain/entity"

// ProfileRepository интерфейс таблицы цветов и классов объектов
type ProfileRepository interface {
	// Color возвращает цветовой диапазон по имени или entity.ErrUnknownColor
	Color(name string) (entity.ColorRange, error)

	// Class возвращает профиль класса по имени или entity.ErrUnknownClass
	Class(name string) (entity.ObjectClassProfile, error)

	// PutColor проверяет и сохраняет цветовой диапазон
	PutColor(rng entity.ColorRange) error

	// PutClass проверяет и сохраняет профиль класса
	PutClass(profile entity.ObjectClassProfile) error

	Colors() []string
	Classes() []string
}
