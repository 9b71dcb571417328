// Package student содержит доменную модель ученика школьного журнала.
//
// Пакет определяет:
//
//   - Сущность Student и структуру полной замены Update
//   - Интерфейс репозитория Repository
//
// # Архитектурные принципы
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. Dependency Inversion - интерфейсы реализуются в infrastructure/persistence
//
// # Удаление
//
// Удаление ученика каскадно удаляет все его оценки. Каскад выполняет
// хранилище (Repository.Delete), а не вызывающий код:
//
//	if err := repo.Delete(ctx, id); errors.Is(err, shared.ErrNotFound) {
//	    // ученика нет, оценки не тронуты
//	}
package student
