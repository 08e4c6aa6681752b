// Package docgen формирует ведомости Word по экзамену: собирает плоскую
// запись, вызывает внешний генератор документов и отдаёт путь к готовому
// файлу. Внутренний формат генератора — его собственная забота.
package docgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/internal/domain/shared"
)

// UnknownSpecialty подставляется, когда группа отсутствует в справочнике.
const UnknownSpecialty = "Неизвестная специальность"

// Ошибки генерации документов.
var (
	ErrSpecialtiesNotLoaded = shared.NewDomainError("docgen", "LoadSpecialties", shared.ErrInvalidState, "specialties file not loaded")
	ErrGeneratorFailed      = shared.NewDomainError("docgen", "Generate", shared.ErrExternalService, "document generator failed")
	ErrDocumentMissing      = shared.NewDomainError("docgen", "Generate", shared.ErrExternalService, "generated document not found")
)

// Document — сгенерированный файл: путь на диске и имя для скачивания.
type Document struct {
	// Path — временный файл, удаляется после отдачи клиенту.
	Path string

	// Filename — имя вида "Дисциплина-2026-01-15.docx" для Content-Disposition.
	Filename string

	// ContentType — MIME-тип Word-документа.
	ContentType string
}

// ContentTypeDocx — MIME-тип .docx.
const ContentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Config — настройки генератора.
type Config struct {
	// BinaryPath — путь к внешнему генератору docx.
	BinaryPath string

	// SpecialtiesPath — JSON-справочник "группа → специальность".
	SpecialtiesPath string

	// OutputDir — каталог для временных файлов (по умолчанию os.TempDir).
	OutputDir string
}

// Generator вызывает внешний бинарь генерации ведомостей.
type Generator struct {
	binaryPath  string
	outputDir   string
	specialties map[string]string
	logger      *slog.Logger
}

// NewGenerator создаёт генератор и загружает справочник специальностей.
func NewGenerator(cfg Config, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = os.TempDir()
	}

	specialties, err := loadSpecialties(cfg.SpecialtiesPath)
	if err != nil {
		return nil, err
	}

	return &Generator{
		binaryPath:  cfg.BinaryPath,
		outputDir:   outputDir,
		specialties: specialties,
		logger:      logger,
	}, nil
}

// loadSpecialties читает справочник "группа → специальность".
func loadSpecialties(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, shared.WrapError("docgen", "LoadSpecialties", ErrSpecialtiesNotLoaded, "read specialties file", err)
	}

	var specialties map[string]string
	if err := json.Unmarshal(data, &specialties); err != nil {
		return nil, shared.WrapError("docgen", "LoadSpecialties", ErrSpecialtiesNotLoaded, "decode specialties file", err)
	}
	return specialties, nil
}

// Generate создаёт документ по плоской записи экзамена. Файл получает
// уникальное имя, коллизии параллельных генераций исключены.
func (g *Generator) Generate(ctx context.Context, rec *records.ExamRecord) (*Document, error) {
	specialty, ok := g.specialties[rec.Group]
	if !ok {
		specialty = UnknownSpecialty
	}

	outputPath := filepath.Join(g.outputDir, fmt.Sprintf("document_%s.docx", uuid.New().String()))
	downloadName := fmt.Sprintf("%s-%s.docx", sanitizeFilename(rec.Discipline), rec.ExamDate)

	args := []string{
		rec.Group,
		rec.Course,
		rec.Semester,
		specialty,
		rec.Discipline,
		displayDate(rec.ExamDate),
		rec.Teacher,
		studentsArg(rec.Students),
		docType(rec.DocType),
		outputPath,
	}

	g.logger.Info("generating exam document",
		"group", rec.Group,
		"discipline", rec.Discipline,
		"output", outputPath,
	)

	cmd := exec.CommandContext(ctx, g.binaryPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		g.logger.Error("document generator failed",
			"error", err,
			"output", string(out),
		)
		return nil, shared.WrapError("docgen", "Generate", ErrGeneratorFailed, strings.TrimSpace(string(out)), err)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return nil, shared.WrapError("docgen", "Generate", ErrDocumentMissing, outputPath, err)
	}

	return &Document{
		Path:        outputPath,
		Filename:    downloadName,
		ContentType: ContentTypeDocx,
	}, nil
}

// Cleanup удаляет временный файл после отдачи клиенту.
func (g *Generator) Cleanup(doc *Document) {
	if doc == nil || doc.Path == "" {
		return
	}
	if err := os.Remove(doc.Path); err != nil && !os.IsNotExist(err) {
		g.logger.Warn("failed to remove generated document",
			"path", doc.Path,
			"error", err,
		)
	}
}

// studentsArg сериализует строки ведомости в формат "ФИО:оценка,...".
func studentsArg(rows []records.ExamRecordRow) string {
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, fmt.Sprintf("%s:%s", row.Name, row.Grade))
	}
	return strings.Join(parts, ",")
}

// docType переводит вид аттестации в аргумент генератора.
func docType(t string) string {
	if t == records.ExamTypeExam.String() {
		return "exam"
	}
	return "gradesheet"
}

// displayDate переводит "2006-01-02" в "02.01.2006" для шапки документа.
func displayDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "." + parts[1] + "." + parts[0]
}

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// sanitizeFilename вычищает символы, недопустимые в имени файла.
func sanitizeFilename(name string) string {
	return invalidFilenameChars.ReplaceAllString(name, "_")
}
