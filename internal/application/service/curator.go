package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/internal/domain/shared"
	"github.com/Roy42022p/Backend/pkg/security"
)

// ══════════════════════════════════════════════════════════════════════════════
// CURATOR SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// CreateCuratorInput — данные нового куратора.
type CreateCuratorInput struct {
	Name     records.FullName
	Login    string
	Password string
}

// UpdateCuratorInput — частичное обновление куратора: nil-поля не трогаются.
type UpdateCuratorInput struct {
	FirstName  *string
	LastName   *string
	Patronymic *string
	Login      *string
}

// CuratorImportEntry — строка импорта кураторов из таблицы.
type CuratorImportEntry struct {
	FullName string
	Groups   []string
	Login    string
	Password string
}

// CuratorService управляет кураторами. Создание и изменение доступны
// только администратору — проверка роли остаётся на HTTP-слое.
type CuratorService struct {
	curators records.CuratorRepository
	groups   records.GroupRepository
	logger   *slog.Logger
}

// NewCuratorService создаёт сервис кураторов.
func NewCuratorService(curators records.CuratorRepository, groups records.GroupRepository, logger *slog.Logger) *CuratorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CuratorService{curators: curators, groups: groups, logger: logger}
}

// List возвращает всех кураторов с названиями их групп.
func (s *CuratorService) List(ctx context.Context) ([]records.CuratorInfo, error) {
	return s.curators.List(ctx)
}

// Create регистрирует куратора с готовыми учётными данными.
func (s *CuratorService) Create(ctx context.Context, in CreateCuratorInput) (*records.Curator, error) {
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	curator := &records.Curator{
		Login:        in.Login,
		PasswordHash: hash,
		Name:         in.Name,
	}
	if err := s.curators.Create(ctx, curator); err != nil {
		return nil, err
	}

	s.logger.Info("curator created", "curator_id", curator.ID, "login", curator.Login)
	return curator, nil
}

// Update применяет частичное обновление и возвращает куратора целиком.
func (s *CuratorService) Update(ctx context.Context, id int64, in UpdateCuratorInput) (*records.Curator, error) {
	curator, err := s.curators.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		curator.Name.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		curator.Name.LastName = *in.LastName
	}
	if in.Patronymic != nil {
		curator.Name.Patronymic = *in.Patronymic
	}
	if in.Login != nil {
		curator.Login = *in.Login
	}

	if err := s.curators.Update(ctx, curator); err != nil {
		return nil, err
	}

	s.logger.Info("curator updated", "curator_id", id)
	return curator, nil
}

// Delete удаляет куратора. Группы куратора, их студенты и экзамены уходят
// каскадом на уровне схемы.
func (s *CuratorService) Delete(ctx context.Context, id int64) error {
	if err := s.curators.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("curator deleted", "curator_id", id)
	return nil
}

// Import загружает кураторов из таблицы. Каждая строка обрабатывается
// независимо: ошибки собираются в список, остальные строки не страдают.
// Упомянутые группы создаются или переподчиняются новому куратору.
func (s *CuratorService) Import(ctx context.Context, entries []CuratorImportEntry) (int, []string) {
	imported := 0
	var errs []string

	for _, entry := range entries {
		name, err := records.ParseFullName(entry.FullName)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Неверный формат ФИО: %s", entry.FullName))
			continue
		}

		if _, err := s.curators.GetByLogin(ctx, entry.Login); err == nil {
			errs = append(errs, fmt.Sprintf("Пропущена запись (логин уже существует): %s", entry.Login))
			continue
		}

		hash, err := security.HashPassword(entry.Password)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Ошибка в записи %s: %v", entry.FullName, err))
			continue
		}

		curator := &records.Curator{
			Login:        entry.Login,
			PasswordHash: hash,
			Name:         name,
		}
		if err := s.curators.Create(ctx, curator); err != nil {
			errs = append(errs, fmt.Sprintf("Ошибка в записи %s: %v", entry.FullName, err))
			continue
		}

		for _, groupName := range entry.Groups {
			if err := s.assignGroup(ctx, groupName, curator.ID); err != nil {
				errs = append(errs, fmt.Sprintf("Группа '%s' для %s: %v", groupName, entry.FullName, err))
			}
		}

		imported++
	}

	s.logger.Info("curators imported", "imported", imported, "errors", len(errs))
	return imported, errs
}

// assignGroup создаёт группу или переподчиняет существующую куратору.
func (s *CuratorService) assignGroup(ctx context.Context, name string, curatorID int64) error {
	group, err := s.groups.GetByName(ctx, name)
	switch {
	case err == nil:
		if group.CuratorID == curatorID {
			return nil
		}
		group.CuratorID = curatorID
		return s.groups.Update(ctx, group)
	case shared.IsNotFound(err):
		return s.groups.Create(ctx, &records.Group{Name: name, CuratorID: curatorID})
	default:
		return err
	}
}
