package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/edutrack/internal/common"
	"github.com/dmitrijs2005/edutrack/internal/dbx"
	"github.com/dmitrijs2005/edutrack/internal/server/models"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/answers"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/progress"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// memUsers is an in-memory users.Repository that enforces uniqueness the
// way the database does.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User

	// createErr, when set, is returned by Create regardless of state.
	createErr error
	// skipExists makes ExistsByEmailOrUsername report false, simulating a
	// concurrent signup that slipped past the pre-check.
	skipExists bool
	lookupErr  error
	forUpdate  int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int64]*models.User{}}
}

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, other := range r.byID {
		if other.Email == u.Email {
			return nil, users.ErrEmailTaken
		}
		if other.UserName == u.UserName {
			return nil, users.ErrUsernameTaken
		}
	}
	r.nextID++
	cp := *u
	cp.ID = r.nextID
	cp.CredentialVersion = 1
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUsers) get(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, u := range r.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	return r.get(func(u *models.User) bool { return u.ID == id })
}

func (r *memUsers) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	r.forUpdate++
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.get(func(u *models.User) bool { return u.Email == email })
}

func (r *memUsers) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	if r.skipExists {
		return false, nil
	}
	_, err := r.get(func(u *models.User) bool { return u.Email == email || u.UserName == username })
	return found(err)
}

func (r *memUsers) EmailTakenByOther(_ context.Context, email string, userID int64) (bool, error) {
	_, err := r.get(func(u *models.User) bool { return u.Email == email && u.ID != userID })
	return found(err)
}

func (r *memUsers) UsernameTakenByOther(_ context.Context, username string, userID int64) (bool, error) {
	_, err := r.get(func(u *models.User) bool { return u.UserName == username && u.ID != userID })
	return found(err)
}

func (r *memUsers) UpdateProfile(_ context.Context, id int64, username, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.UserName = username
	u.Email = email
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (r *memUsers) UpdatePassword(_ context.Context, id int64, hash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.PasswordHash = hash
	u.CredentialVersion++
	u.UpdatedAt = time.Now()
	return u.CredentialVersion, nil
}

func found(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrorNotFound):
		return false, nil
	default:
		return false, err
	}
}

type memProgress struct {
	rows      map[[2]int64]*models.LessonProgress
	lessons   map[int64][]int64 // course -> ordered lessons
	users     map[int64]bool
	err       error
	countErr  error
}

func newMemProgress() *memProgress {
	return &memProgress{rows: map[[2]int64]*models.LessonProgress{}, lessons: map[int64][]int64{}, users: map[int64]bool{}}
}

func (r *memProgress) MarkCompleted(_ context.Context, userID, lessonID int64) (*models.LessonProgress, error) {
	if r.err != nil {
		return nil, r.err
	}
	if !r.users[userID] {
		return nil, common.ErrorNotFound
	}
	now := time.Now()
	key := [2]int64{userID, lessonID}
	if p, ok := r.rows[key]; ok {
		p.Completed = true
		p.CompletionDate = &now
		return p, nil
	}
	p := &models.LessonProgress{UserID: userID, LessonID: lessonID, Completed: true, CompletionDate: &now}
	r.rows[key] = p
	return p, nil
}

func (r *memProgress) ForCourse(_ context.Context, userID, courseID int64) ([]models.LessonStatus, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []models.LessonStatus{}
	for _, lessonID := range r.lessons[courseID] {
		st := models.LessonStatus{LessonID: lessonID}
		if p, ok := r.rows[[2]int64{userID, lessonID}]; ok {
			st.Completed = p.Completed
			st.CompletionDate = p.CompletionDate
		}
		out = append(out, st)
	}
	return out, nil
}

func (r *memProgress) CountCompleted(_ context.Context, userID int64) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	n := 0
	for key, p := range r.rows {
		if key[0] == userID && p.Completed {
			n++
		}
	}
	return n, nil
}

// memAnswers joins attempts against catalog for points, like the SQL does.
type memAnswers struct {
	attempts []models.AnswerAttempt
	catalog  *memCatalog
	users    map[int64]bool
	err      error
}

func (r *memAnswers) Create(_ context.Context, a *models.AnswerAttempt) (*models.AnswerAttempt, error) {
	if r.err != nil {
		return nil, r.err
	}
	if !r.users[a.UserID] {
		return nil, common.ErrorNotFound
	}
	a.ID = int64(len(r.attempts) + 1)
	a.AttemptedAt = time.Now()
	r.attempts = append(r.attempts, *a)
	return a, nil
}

func (r *memAnswers) Counts(_ context.Context, userID int64) (models.AttemptCounts, error) {
	if r.err != nil {
		return models.AttemptCounts{}, r.err
	}
	var c models.AttemptCounts
	for _, a := range r.attempts {
		if a.UserID != userID {
			continue
		}
		c.Attempted++
		if a.Correct {
			c.Correct++
		}
	}
	return c, nil
}

func (r *memAnswers) PointsEarned(_ context.Context, userID int64) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	total := 0
	for _, a := range r.attempts {
		if a.UserID == userID && a.Correct {
			if e, ok := r.catalog.exercises[a.ExerciseID]; ok {
				total += e.Points
			}
		}
	}
	return total, nil
}

type memCatalog struct {
	exercises map[int64]*models.Exercise
	err       error
}

func (r *memCatalog) GetExercise(_ context.Context, id int64) (*models.Exercise, error) {
	if r.err != nil {
		return nil, r.err
	}
	e, ok := r.exercises[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return e, nil
}

type fakeRepoManager struct {
	users    *memUsers
	progress *memProgress
	answers  *memAnswers
	catalog  *memCatalog
}

func newFakeRepoManager() *fakeRepoManager {
	cat := &memCatalog{exercises: map[int64]*models.Exercise{}}
	return &fakeRepoManager{
		users:    newMemUsers(),
		progress: newMemProgress(),
		answers:  &memAnswers{catalog: cat, users: map[int64]bool{}},
		catalog:  cat,
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.users }
func (m *fakeRepoManager) Progress(dbx.DBTX) progress.Repository       { return m.progress }
func (m *fakeRepoManager) Answers(dbx.DBTX) answers.Repository         { return m.answers }
func (m *fakeRepoManager) Catalog(dbx.DBTX) catalog.Repository         { return m.catalog }
