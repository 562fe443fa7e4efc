package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"quizdeck/internal/database"
	"quizdeck/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSQLiteStore migrates a fresh database file in a temp dir.
func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quizdeck.db")
	require.NoError(t, database.Migrate(path))
	store, err := NewStore(path, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedCatalog(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	_, err := NewSubjectRepository(store).BulkCreate(ctx, []domain.Subject{{Name: "Physics"}, {Name: "Chemistry"}})
	require.NoError(t, err)
	_, err = NewCategoryRepository(store).BulkCreate(ctx, []domain.Category{
		{Name: "Mechanics", SubjectID: 1},
		{Name: "Bonding", SubjectID: 2},
	})
	require.NoError(t, err)
}

func countRows(t *testing.T, store *Store, table string) int {
	t.Helper()
	db, err := store.DB()
	require.NoError(t, err)
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func TestSQLite_CategoryRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	seedCatalog(t, store)

	categories, err := NewCategoryRepository(store).FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{
		{ID: 1, Name: "Mechanics", SubjectID: 1},
		{ID: 2, Name: "Bonding", SubjectID: 2},
	}, categories)
}

func TestSQLite_BulkCreateIsAllOrNothing(t *testing.T) {
	store := newSQLiteStore(t)
	seedCatalog(t, store)

	_, err := NewCategoryRepository(store).BulkCreate(context.Background(), []domain.Category{
		{Name: "Optics", SubjectID: 1},
		{Name: "Orphan", SubjectID: 99},
	})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeDanglingReference, domainErr.Code)
	assert.Equal(t, 1, domainErr.Context["index"])
	assert.Equal(t, 2, countRows(t, store, "categories"))
}

func TestSQLite_DuplicateEmail(t *testing.T) {
	store := newSQLiteStore(t)
	_, err := NewUserRepository(store).BulkCreate(context.Background(), []domain.User{
		{Email: "a@b.c", Password: "h1", Name: "Ann"},
		{Email: "a@b.c", Password: "h2", Name: "Ann again"},
	})
	assert.Equal(t, domain.CodeConstraintViolation, domain.CodeOf(err))
	assert.Zero(t, countRows(t, store, "users"))
}

func TestSQLite_UserDefaultsAndPasswordRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	repo := NewUserRepository(store)

	_, err := repo.BulkCreate(context.Background(), []domain.User{{Email: "a@b.c", Password: "$2b$10$abc", Name: "Ann"}})
	require.NoError(t, err)

	users, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "$2b$10$abc", users[0].Password)
	require.NotNil(t, users[0].Role)
	assert.Equal(t, domain.RoleUser, *users[0].Role)
}

func TestSQLite_EnumCheckConstraint(t *testing.T) {
	store := newSQLiteStore(t)
	seedCatalog(t, store)
	_, err := NewUserRepository(store).BulkCreate(context.Background(), []domain.User{{Email: "a@b.c", Password: "p", Name: "Ann"}})
	require.NoError(t, err)

	bogus := domain.FlashcardDifficulty("IMPOSSIBLE")
	_, err = NewFlashcardRepository(store).BulkCreate(context.Background(), []domain.Flashcard{
		{Front: "F", Back: "B", Difficulty: &bogus, CategoryID: 1, UserID: 1},
	})
	assert.Equal(t, domain.CodeInvalidEnum, domain.CodeOf(err))
}

func TestSQLite_FlashcardDefaultDifficulty(t *testing.T) {
	store := newSQLiteStore(t)
	seedCatalog(t, store)
	_, err := NewUserRepository(store).BulkCreate(context.Background(), []domain.User{{Email: "a@b.c", Password: "p", Name: "Ann"}})
	require.NoError(t, err)

	repo := NewFlashcardRepository(store)
	_, err = repo.BulkCreate(context.Background(), []domain.Flashcard{{Front: "F", Back: "B", CategoryID: 1, UserID: 1}})
	require.NoError(t, err)

	cards, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, domain.FlashcardMedium, *cards[0].Difficulty)
}

func TestSQLite_QuizDeepRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	seedCatalog(t, store)
	repo := NewQuizRepository(store)

	hard := domain.DifficultyHard
	limit := int64(600)
	exam := true
	image := "/uploads/question-images/q1.png"
	quizzes := []domain.Quiz{
		{
			Title:      "Kinematics",
			Difficulty: &hard,
			TimeLimit:  &limit,
			IsExamMode: &exam,
			SubjectID:  1,
			CategoryID: 1,
			Questions: []domain.Question{
				{Content: "Q1", Type: "SINGLE_CHOICE", ImageURL: &image, Options: []domain.Option{{Text: "a", IsCorrect: true}, {Text: "b"}}, Pairs: []domain.Pair{}},
				{Content: "Q2", Type: "MATCHING", Options: []domain.Option{}, Pairs: []domain.Pair{{Left: "l", Right: "r"}}},
			},
		},
		{Title: "Bonds", SubjectID: 2, CategoryID: 2, Questions: []domain.Question{}},
	}
	for i := range quizzes {
		require.NoError(t, repo.CreateDeep(context.Background(), &quizzes[i]))
	}

	got, err := repo.FindAllDeep(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "Kinematics", first.Title)
	assert.Equal(t, domain.DifficultyHard, *first.Difficulty)
	assert.Equal(t, int64(600), *first.TimeLimit)
	assert.True(t, *first.IsExamMode)
	assert.Nil(t, first.Description)
	require.Len(t, first.Questions, 2)
	assert.Equal(t, image, *first.Questions[0].ImageURL)
	assert.Nil(t, first.Questions[0].Explanation)
	assert.Equal(t, []string{"a", "b"}, []string{first.Questions[0].Options[0].Text, first.Questions[0].Options[1].Text})
	assert.True(t, first.Questions[0].Options[0].IsCorrect)
	assert.False(t, first.Questions[0].Options[1].IsCorrect)
	assert.Empty(t, first.Questions[0].Pairs)
	assert.NotNil(t, first.Questions[0].Pairs)
	assert.Equal(t, "l", first.Questions[1].Pairs[0].Left)

	second := got[1]
	assert.Equal(t, domain.DifficultyMedium, *second.Difficulty)
	assert.False(t, *second.IsExamMode)
	assert.Nil(t, second.TimeLimit)
	assert.NotNil(t, second.Questions)
	assert.Empty(t, second.Questions)
}

func TestSQLite_QuizCreateDeepIsAtomic(t *testing.T) {
	store := newSQLiteStore(t)
	seedCatalog(t, store)

	db, err := store.DB()
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TRIGGER reject_option BEFORE INSERT ON options
		WHEN NEW.text = 'boom' BEGIN SELECT RAISE(ABORT, 'option rejected'); END`)
	require.NoError(t, err)

	quiz := &domain.Quiz{
		Title:      "Kinematics",
		SubjectID:  1,
		CategoryID: 1,
		Questions: []domain.Question{
			{Content: "Q1", Type: "SINGLE_CHOICE", Options: []domain.Option{{Text: "fine"}}},
			{Content: "Q2", Type: "SINGLE_CHOICE", Options: []domain.Option{{Text: "boom"}}},
		},
	}
	err = NewQuizRepository(store).CreateDeep(context.Background(), quiz)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeConstraintViolation, domainErr.Code)
	assert.Equal(t, "questions[1].options[0]", domainErr.Context["record"])

	for _, table := range []string{"quizzes", "questions", "options", "pairs"} {
		assert.Zero(t, countRows(t, store, table), table)
	}
}

func TestSQLite_QuizDanglingCategory(t *testing.T) {
	store := newSQLiteStore(t)
	seedCatalog(t, store)

	err := NewQuizRepository(store).CreateDeep(context.Background(), &domain.Quiz{Title: "T", SubjectID: 1, CategoryID: 42})
	assert.Equal(t, domain.CodeDanglingReference, domain.CodeOf(err))
}

func TestSQLite_DisconnectReconnect(t *testing.T) {
	store := newSQLiteStore(t)
	seedCatalog(t, store)
	repo := NewSubjectRepository(store)

	require.NoError(t, store.Disconnect())
	_, err := repo.FindAll(context.Background())
	assert.Equal(t, domain.CodeStoreDetached, domain.CodeOf(err))
	assert.Error(t, store.Ping(context.Background()))

	require.NoError(t, store.Reconnect())
	subjects, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, subjects, 2)
}

func TestSQLite_DisconnectWaitsForOpenTransaction(t *testing.T) {
	store := newSQLiteStore(t)
	tm := NewTransactionManagerAdapter(store)
	repo := NewSubjectRepository(store)

	inTx := make(chan struct{})
	finish := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- tm.WithTransaction(context.Background(), func(ctx context.Context) error {
			if _, err := repo.BulkCreate(ctx, []domain.Subject{{Name: "Physics"}}); err != nil {
				return err
			}
			close(inTx)
			<-finish
			_, err := repo.BulkCreate(ctx, []domain.Subject{{Name: "Chemistry"}})
			return err
		})
	}()
	<-inTx

	disconnected := make(chan error, 1)
	go func() { disconnected <- store.Disconnect() }()

	select {
	case <-disconnected:
		t.Fatal("Disconnect returned while a transaction was open")
	case <-time.After(100 * time.Millisecond):
	}

	close(finish)
	require.NoError(t, <-txDone)
	select {
	case err := <-disconnected:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Disconnect did not return after the transaction committed")
	}
	assert.False(t, store.Attached())

	_, err := repo.FindAll(context.Background())
	assert.Equal(t, domain.CodeStoreDetached, domain.CodeOf(err))

	require.NoError(t, store.Reconnect())
	subjects, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Subject{{ID: 1, Name: "Physics"}, {ID: 2, Name: "Chemistry"}}, subjects)
}

func TestSQLite_BackupTo(t *testing.T) {
	store := newSQLiteStore(t)
	seedCatalog(t, store)

	dest := filepath.Join(t.TempDir(), "backup.db")
	require.NoError(t, store.BackupTo(context.Background(), dest))

	backup, err := NewStore(dest, time.Second)
	require.NoError(t, err)
	defer backup.Close()

	subjects, err := NewSubjectRepository(backup).FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Subject{{ID: 1, Name: "Physics"}, {ID: 2, Name: "Chemistry"}}, subjects)

	assert.Error(t, store.BackupTo(context.Background(), dest))
}
