package records

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// SCOPE
// ══════════════════════════════════════════════════════════════════════════════

// Scope ограничивает выборки записями, принадлежащими вызывающему.
// Администратор видит всё; куратор — только свои группы, экзамены и
// студентов своих групп. Scope не отдельная проверка доступа, а предикат,
// который каждый списочный запрос обязан включить в WHERE.
type Scope struct {
	Role        Role
	PrincipalID int64
}

// AdminScope возвращает неограниченную область видимости.
func AdminScope() Scope {
	return Scope{Role: RoleAdmin}
}

// CuratorScope возвращает область видимости куратора.
func CuratorScope(curatorID int64) Scope {
	return Scope{Role: RoleCurator, PrincipalID: curatorID}
}

// Restricted сообщает, требуется ли фильтрация по владельцу.
func (s Scope) Restricted() bool {
	return s.Role == RoleCurator
}

// ══════════════════════════════════════════════════════════════════════════════
// LIST ROWS
// ══════════════════════════════════════════════════════════════════════════════

// CuratorInfo — куратор со списком названий его групп.
type CuratorInfo struct {
	Curator
	Groups []string
}

// GroupInfo — группа с числом студентов.
type GroupInfo struct {
	Group
	StudentsCount int
}

// StudentInfo — студент вместе с названием группы, ФИО куратора и
// привязанным chat_id (nil, если чат не привязан).
type StudentInfo struct {
	Student
	GroupName   string
	CuratorName FullName
	ChatID      *int64
}

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORIES
// ══════════════════════════════════════════════════════════════════════════════

// PrincipalRepository — поиск участника любой роли по логину.
type PrincipalRepository interface {
	// GetByLogin выполняет один объединённый запрос по таблицам всех ролей
	// и возвращает участника с дискриминантом роли.
	GetByLogin(ctx context.Context, login string) (*Principal, error)
}

// AdminRepository — хранилище администраторов.
type AdminRepository interface {
	Create(ctx context.Context, a *Admin) error
	GetByLogin(ctx context.Context, login string) (*Admin, error)
}

// CuratorRepository — хранилище кураторов.
type CuratorRepository interface {
	Create(ctx context.Context, c *Curator) error
	Update(ctx context.Context, c *Curator) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]CuratorInfo, error)
	GetByID(ctx context.Context, id int64) (*Curator, error)
	GetByLogin(ctx context.Context, login string) (*Curator, error)

	// GetByFullName ищет куратора по ФИО без учёта регистра.
	GetByFullName(ctx context.Context, name FullName) (*Curator, error)

	// SetCredentials записывает хэш пароля и ссылку на чат после
	// регистрации в боте.
	SetCredentials(ctx context.Context, id int64, passwordHash string, handleID int64) error
}

// GroupRepository — хранилище групп.
type GroupRepository interface {
	Create(ctx context.Context, g *Group) error
	Update(ctx context.Context, g *Group) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, scope Scope) ([]GroupInfo, error)
	GetByID(ctx context.Context, id int64) (*Group, error)

	// GetByName ищет группу по точному названию (импорт студентов и групп).
	GetByName(ctx context.Context, name string) (*Group, error)
}

// StudentRepository — хранилище студентов.
type StudentRepository interface {
	Create(ctx context.Context, s *Student) error
	Update(ctx context.Context, s *Student) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, scope Scope) ([]StudentInfo, error)
	ListByGroup(ctx context.Context, groupID int64) ([]StudentInfo, error)
	GetByID(ctx context.Context, id int64) (*Student, error)
	GetByLogin(ctx context.Context, login string) (*StudentInfo, error)

	// GetByFullName ищет студента по ФИО без учёта регистра.
	GetByFullName(ctx context.Context, name FullName) (*Student, error)

	// GetByShortName ищет студента по фамилии и имени (импорт ведомостей).
	GetByShortName(ctx context.Context, lastName, firstName string) (*Student, error)

	// ExistsByName сообщает, есть ли в группе студент с таким ФИО
	// (защита от дублей при импорте).
	ExistsByName(ctx context.Context, name FullName, groupID int64) (bool, error)

	// SetCredentials записывает хэш пароля, ссылку на чат и verified=true.
	SetCredentials(ctx context.Context, id int64, passwordHash string, handleID int64) error

	// ChatID возвращает внешний идентификатор чата студента.
	// Непривязанный чат — ErrHandleNotFound.
	ChatID(ctx context.Context, studentID int64) (int64, error)
}

// ExamRepository — хранилище экзаменов.
type ExamRepository interface {
	Create(ctx context.Context, e *Exam) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, examType ExamType, scope Scope) ([]ExamDetails, error)
	GetDetails(ctx context.Context, id int64) (*ExamDetails, error)

	// UpdateLink меняет ссылку на билет и возвращает обновлённый экзамен.
	UpdateLink(ctx context.Context, id int64, link *string) (*ExamDetails, error)

	// ListUpcoming возвращает экзамены с датой проведения >= fromDate
	// (строка в формате DateLayout) вместе с данными куратора.
	ListUpcoming(ctx context.Context, fromDate string) ([]ExamDetails, error)

	// RecipientChatIDs возвращает chat_id всех студентов группы экзамена,
	// у которых привязан чат. Отсутствующий экзамен — ErrExamNotFound;
	// группа без привязанных студентов — пустой срез без ошибки.
	RecipientChatIDs(ctx context.Context, examID int64) ([]int64, error)

	// Marks возвращает ведомость оценок по экзамену.
	Marks(ctx context.Context, examID int64) (*ExamMarks, error)

	// FullRecord собирает плоскую запись для генератора документов.
	FullRecord(ctx context.Context, examID int64) (*ExamRecord, error)
}

// MarkRepository — хранилище оценок.
type MarkRepository interface {
	// Get возвращает оценку пары (студент, экзамен) или ErrMarkNotFound.
	Get(ctx context.Context, studentID, examID int64) (*Mark, error)

	// Upsert вставляет или перезаписывает оценку. Гонки двух одновременных
	// записей разрешаются по принципу "последняя запись побеждает".
	Upsert(ctx context.Context, m *Mark) error
}

// HandleRepository — хранилище привязок чатов.
type HandleRepository interface {
	GetByChatID(ctx context.Context, chatID int64) (*ChatHandle, error)
	Create(ctx context.Context, chatID int64) (*ChatHandle, error)

	// Exists сообщает, привязан ли chat_id к какому-либо участнику.
	Exists(ctx context.Context, chatID int64) (bool, error)
}

// ReminderLog — журнал отправленных напоминаний. Даёт планировщику ключ
// идемпотентности: перезапуск процесса в тот же день не дублирует рассылку.
type ReminderLog interface {
	// MarkSent фиксирует отправку напоминания (exam, offset) за день day.
	// Возвращает false, если запись уже существовала.
	MarkSent(ctx context.Context, examID int64, dayOffset int, day string) (bool, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT RECORD
// ══════════════════════════════════════════════════════════════════════════════

// ExamRecordRow — строка документа: ФИО студента и оценка.
type ExamRecordRow struct {
	Name  string
	Grade string
}

// ExamRecord — плоская запись экзамена для внешнего генератора документов.
type ExamRecord struct {
	Group      string
	Course     string
	Semester   string
	Discipline string
	ExamDate   string
	Teacher    string
	DocType    string
	Students   []ExamRecordRow
}
