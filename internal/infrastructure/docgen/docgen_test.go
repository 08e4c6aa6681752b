package docgen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roy42022p/Backend/internal/domain/records"
)

func writeSpecialties(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "specialties.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// fakeGenerator — скрипт, который создаёт файл по последнему аргументу,
// как это делает настоящий генератор.
func writeFakeGenerator(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docx-generator")
	script := "#!/bin/sh\ntouch \"${10}\"\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func testRecord() *records.ExamRecord {
	return &records.ExamRecord{
		Group:      "ИС-21",
		Course:     "2",
		Semester:   "3",
		Discipline: "Математика",
		ExamDate:   "2026-01-15",
		Teacher:    "Кузнецова Анна Павловна",
		DocType:    "exam",
		Students: []records.ExamRecordRow{
			{Name: "Сидоров Семён Семёнович", Grade: "5"},
			{Name: "Иванов Иван Иванович", Grade: "н/а"},
		},
	}
}

func TestNewGenerator_MissingSpecialties(t *testing.T) {
	_, err := NewGenerator(Config{
		BinaryPath:      "docx-generator",
		SpecialtiesPath: "/nonexistent/specialties.json",
	}, nil)
	assert.ErrorIs(t, err, ErrSpecialtiesNotLoaded)
}

func TestGenerator_Generate(t *testing.T) {
	outputDir := t.TempDir()
	gen, err := NewGenerator(Config{
		BinaryPath:      writeFakeGenerator(t),
		SpecialtiesPath: writeSpecialties(t, `{"ИС-21": "Информационные системы"}`),
		OutputDir:       outputDir,
	}, nil)
	require.NoError(t, err)

	doc, err := gen.Generate(context.Background(), testRecord())
	require.NoError(t, err)
	defer gen.Cleanup(doc)

	assert.FileExists(t, doc.Path)
	assert.Equal(t, "Математика-2026-01-15.docx", doc.Filename)
	assert.Equal(t, ContentTypeDocx, doc.ContentType)
	assert.Equal(t, outputDir, filepath.Dir(doc.Path))
}

func TestGenerator_GenerateBinaryMissing(t *testing.T) {
	gen, err := NewGenerator(Config{
		BinaryPath:      "/nonexistent/docx-generator",
		SpecialtiesPath: writeSpecialties(t, `{}`),
		OutputDir:       t.TempDir(),
	}, nil)
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), testRecord())
	assert.ErrorIs(t, err, ErrGeneratorFailed)
}

func TestGenerator_Cleanup(t *testing.T) {
	gen, err := NewGenerator(Config{
		BinaryPath:      writeFakeGenerator(t),
		SpecialtiesPath: writeSpecialties(t, `{}`),
		OutputDir:       t.TempDir(),
	}, nil)
	require.NoError(t, err)

	doc, err := gen.Generate(context.Background(), testRecord())
	require.NoError(t, err)

	gen.Cleanup(doc)
	assert.NoFileExists(t, doc.Path)

	// Повторная очистка и nil-документ безопасны.
	gen.Cleanup(doc)
	gen.Cleanup(nil)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "ОБЖ_ основы", sanitizeFilename(`ОБЖ: основы`))
	assert.Equal(t, "a_b_c_d", sanitizeFilename(`a/b\c?d`))
	assert.Equal(t, "Математика", sanitizeFilename("Математика"))
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "15.01.2026", displayDate("2026-01-15"))
	// Неожиданный формат возвращается как есть.
	assert.Equal(t, "15.01.2026", displayDate("15.01.2026"))
}

func TestStudentsArg(t *testing.T) {
	arg := studentsArg(testRecord().Students)
	assert.Equal(t, "Сидоров Семён Семёнович:5,Иванов Иван Иванович:н/а", arg)
}

func TestDocType(t *testing.T) {
	assert.Equal(t, "exam", docType("exam"))
	assert.Equal(t, "gradesheet", docType("credit"))
}
