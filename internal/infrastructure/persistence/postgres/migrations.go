package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: ACCOUNTS
// Participant tables: chat handles, admins, curators.
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Chat handles bound during bot registration. One row per external chat.
CREATE TABLE IF NOT EXISTS telegram (
    id BIGSERIAL PRIMARY KEY,
    telegram_id BIGINT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS admins (
    id BIGSERIAL PRIMARY KEY,
    login VARCHAR(100) NOT NULL UNIQUE,
    password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS curators (
    id BIGSERIAL PRIMARY KEY,
    login VARCHAR(100) NOT NULL UNIQUE,
    password TEXT NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL,
    patronymic VARCHAR(100) NOT NULL DEFAULT '',
    telegram_id BIGINT REFERENCES telegram(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_curators_full_name
    ON curators (LOWER(last_name), LOWER(first_name), LOWER(patronymic));
`

const migration001Down = `
DROP TABLE IF EXISTS curators;
DROP TABLE IF EXISTS admins;
DROP TABLE IF EXISTS telegram;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: GROUPS AND STUDENTS
// Deleting a curator cascades to the groups they own; deleting a group
// cascades to its students.
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
CREATE TABLE IF NOT EXISTS groups (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE,
    curator_id BIGINT NOT NULL REFERENCES curators(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_groups_curator_id ON groups(curator_id);

CREATE TABLE IF NOT EXISTS students (
    id BIGSERIAL PRIMARY KEY,
    login VARCHAR(100) UNIQUE,
    password TEXT,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL,
    patronymic VARCHAR(100) NOT NULL DEFAULT '',
    date_of_birth VARCHAR(20),
    telephone VARCHAR(30),
    mail VARCHAR(100),
    snils VARCHAR(20),
    verified BOOLEAN NOT NULL DEFAULT FALSE,
    group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    telegram_id BIGINT REFERENCES telegram(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_students_group_id ON students(group_id);
CREATE INDEX IF NOT EXISTS idx_students_full_name
    ON students (LOWER(last_name), LOWER(first_name), LOWER(patronymic));
`

const migration002Down = `
DROP TABLE IF EXISTS students;
DROP TABLE IF EXISTS groups;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: EXAMS, MARKS, REMINDER LOG
// holding_date is stored as text in the YYYY-MM-DD layout the frontend
// sends; the reminder scheduler parses it and skips rows it cannot parse.
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
CREATE TABLE IF NOT EXISTS exams (
    id BIGSERIAL PRIMARY KEY,
    type VARCHAR(10) NOT NULL CHECK (type IN ('exam', 'credit')),
    semester SMALLINT NOT NULL,
    course SMALLINT NOT NULL,
    discipline VARCHAR(200) NOT NULL,
    holding_date VARCHAR(10) NOT NULL,
    link TEXT,
    group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    curator_id BIGINT NOT NULL REFERENCES curators(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_exams_group_id ON exams(group_id);
CREATE INDEX IF NOT EXISTS idx_exams_curator_id ON exams(curator_id);
CREATE INDEX IF NOT EXISTS idx_exams_holding_date ON exams(holding_date);

-- One mark per (exam, student); writes go through upsert.
CREATE TABLE IF NOT EXISTS marks (
    id BIGSERIAL PRIMARY KEY,
    mark SMALLINT CHECK (mark BETWEEN 2 AND 5),
    exam_id BIGINT NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
    student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    UNIQUE (exam_id, student_id)
);

CREATE INDEX IF NOT EXISTS idx_marks_student_id ON marks(student_id);

-- Idempotency key for the reminder scheduler: a process restart on the
-- same day must not repeat a broadcast.
CREATE TABLE IF NOT EXISTS reminder_log (
    id BIGSERIAL PRIMARY KEY,
    exam_id BIGINT NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
    day_offset SMALLINT NOT NULL,
    sent_on VARCHAR(10) NOT NULL,
    UNIQUE (exam_id, day_offset, sent_on)
);
`

const migration003Down = `
DROP TABLE IF EXISTS reminder_log;
DROP TABLE IF EXISTS marks;
DROP TABLE IF EXISTS exams;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_accounts", UpSQL: migration001Up, DownSQL: migration001Down},
		{Version: 2, Name: "create_groups_students", UpSQL: migration002Up, DownSQL: migration002Down},
		{Version: 3, Name: "create_exams_marks", UpSQL: migration003Up, DownSQL: migration003Down},
	}
}
