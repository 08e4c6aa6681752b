package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GROUP SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// GroupImportEntry — строка импорта групп: название и ФИО куратора.
type GroupImportEntry struct {
	Name            string
	CuratorFullName string
}

// GroupService управляет учебными группами. Списки фильтруются по области
// видимости вызывающего: куратор видит только собственные группы.
type GroupService struct {
	groups   records.GroupRepository
	curators records.CuratorRepository
	logger   *slog.Logger
}

// NewGroupService создаёт сервис групп.
func NewGroupService(groups records.GroupRepository, curators records.CuratorRepository, logger *slog.Logger) *GroupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupService{groups: groups, curators: curators, logger: logger}
}

// List возвращает группы в области видимости вызывающего с числом студентов.
func (s *GroupService) List(ctx context.Context, scope records.Scope) ([]records.GroupInfo, error) {
	return s.groups.List(ctx, scope)
}

// Create создаёт группу, проверяя существование куратора-владельца.
func (s *GroupService) Create(ctx context.Context, name string, curatorID int64) (*records.Group, error) {
	if name == "" {
		return nil, records.ErrEmptyGroup
	}
	if _, err := s.curators.GetByID(ctx, curatorID); err != nil {
		return nil, err
	}

	group := &records.Group{Name: name, CuratorID: curatorID}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}

	s.logger.Info("group created", "group_id", group.ID, "name", name, "curator_id", curatorID)
	return group, nil
}

// Update меняет название и/или куратора группы. Нулевые значения не трогаются.
func (s *GroupService) Update(ctx context.Context, id int64, name *string, curatorID *int64) (*records.Group, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil && *name != "" {
		group.Name = *name
	}
	if curatorID != nil {
		if _, err := s.curators.GetByID(ctx, *curatorID); err != nil {
			return nil, err
		}
		group.CuratorID = *curatorID
	}

	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}

	s.logger.Info("group updated", "group_id", id)
	return group, nil
}

// Delete удаляет группу вместе со студентами и экзаменами (каскад схемы).
func (s *GroupService) Delete(ctx context.Context, id int64) error {
	if err := s.groups.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("group deleted", "group_id", id)
	return nil
}

// Import загружает группы из таблицы. Существующая группа переподчиняется
// куратору из записи; неизвестный куратор или неверное ФИО — в список ошибок.
func (s *GroupService) Import(ctx context.Context, entries []GroupImportEntry) (int, []string) {
	imported := 0
	var errs []string

	for _, entry := range entries {
		if entry.Name == "" || entry.CuratorFullName == "" {
			errs = append(errs, fmt.Sprintf("Пропущена запись (недостаточно данных): %s", entry.Name))
			continue
		}

		name, err := records.ParseFullName(entry.CuratorFullName)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Неверный формат ФИО куратора: %s", entry.CuratorFullName))
			continue
		}

		curator, err := s.curators.GetByFullName(ctx, name)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Куратор не найден: %s", entry.CuratorFullName))
			continue
		}

		group, err := s.groups.GetByName(ctx, entry.Name)
		switch {
		case err == nil:
			if group.CuratorID != curator.ID {
				group.CuratorID = curator.ID
				if err := s.groups.Update(ctx, group); err != nil {
					errs = append(errs, fmt.Sprintf("Ошибка при обработке группы '%s': %v", entry.Name, err))
				}
			}
		case shared.IsNotFound(err):
			if err := s.groups.Create(ctx, &records.Group{Name: entry.Name, CuratorID: curator.ID}); err != nil {
				errs = append(errs, fmt.Sprintf("Ошибка при обработке группы '%s': %v", entry.Name, err))
				continue
			}
			imported++
		default:
			errs = append(errs, fmt.Sprintf("Ошибка при обработке группы '%s': %v", entry.Name, err))
		}
	}

	s.logger.Info("groups imported", "imported", imported, "errors", len(errs))
	return imported, errs
}
