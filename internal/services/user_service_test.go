package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/records-service/internal/events"
	"github.com/SAP-F-2025/records-service/internal/identity"
	"github.com/SAP-F-2025/records-service/internal/models"
	"github.com/SAP-F-2025/records-service/internal/repositories"
	"github.com/SAP-F-2025/records-service/internal/validator"
)

func listAllUsers() repositories.UserFilters {
	return repositories.UserFilters{Limit: 100}
}

// recordingStatsGate counts invalidations for assertions
type recordingStatsGate struct{ count int32 }

func (g *recordingStatsGate) Invalidate(ctx context.Context) {
	atomic.AddInt32(&g.count, 1)
}

func (g *recordingStatsGate) invalidations() int32 {
	return atomic.LoadInt32(&g.count)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestUserService(repo *mockRepository) (UserService, *recordingStatsGate, *events.MockEventPublisher) {
	gate := &recordingStatsGate{}
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewUserService(
		repo,
		identity.NewLocalProvider(),
		gate,
		publisher,
		testLogger(),
		validator.New(),
		0,
	)
	return svc, gate, publisher
}

// recordingIdentityProvider counts Register calls so tests can assert the
// identity backend stays untouched on fail-fast paths.
type recordingIdentityProvider struct {
	identity.Provider
	registers int32
}

func (p *recordingIdentityProvider) Register(ctx context.Context, user *models.User, password string) error {
	atomic.AddInt32(&p.registers, 1)
	return p.Provider.Register(ctx, user, password)
}

func seedMajor(t *testing.T, repo *mockRepository, id uint, name string) {
	t.Helper()
	if err := repo.Major().Create(context.Background(), &models.Major{ID: id, Name: name}); err != nil {
		t.Fatalf("failed to seed major: %v", err)
	}
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates student with role record and default major", func(t *testing.T) {
		repo := newMockRepository()
		seedMajor(t, repo, 7, "Computer Science")
		svc, gate, publisher := newTestUserService(repo)

		user, err := svc.Create(ctx, &CreateUserRequest{
			FullName: "Ann Author",
			Email:    "ann@test.com",
			Password: "Pw1!",
			Role:     "Student",
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if user.Role != models.RoleStudent {
			t.Errorf("expected role student, got %s", user.Role)
		}
		if user.PasswordHash == "" {
			t.Error("expected password hash to be set")
		}

		student, err := repo.Student().GetByUserID(ctx, user.ID)
		if err != nil {
			t.Fatalf("expected student record, got %v", err)
		}
		if student.MajorID != 7 {
			t.Errorf("expected default major 7, got %d", student.MajorID)
		}

		if gate.invalidations() != 1 {
			t.Errorf("expected 1 stats invalidation, got %d", gate.invalidations())
		}
		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventUserCreated {
			t.Errorf("expected one user.created event, got %+v", published)
		}
	})

	t.Run("role dispatch is case-insensitive", func(t *testing.T) {
		repo := newMockRepository()
		seedMajor(t, repo, 1, "CS")
		svc, _, _ := newTestUserService(repo)

		lecturer, err := svc.Create(ctx, &CreateUserRequest{
			FullName: "Lee Lecturer", Email: "lee@test.com", Password: "Pw1!", Role: "LECTURER",
		})
		if err != nil {
			t.Fatalf("lecturer create failed: %v", err)
		}
		if _, err := repo.Lecturer().GetByUserID(ctx, lecturer.ID); err != nil {
			t.Errorf("expected lecturer record: %v", err)
		}
		if _, err := repo.Student().GetByUserID(ctx, lecturer.ID); err == nil {
			t.Error("lecturer must not get a student record")
		}

		admin, err := svc.Create(ctx, &CreateUserRequest{
			FullName: "Ada Admin", Email: "ada@test.com", Password: "Pw1!", Role: "Admin",
		})
		if err != nil {
			t.Fatalf("admin create failed: %v", err)
		}
		if _, err := repo.Admin().GetByUserID(ctx, admin.ID); err != nil {
			t.Errorf("expected admin record: %v", err)
		}
	})

	t.Run("student without any major fails fast", func(t *testing.T) {
		repo := newMockRepository()
		svc, gate, _ := newTestUserService(repo)

		_, err := svc.Create(ctx, &CreateUserRequest{
			FullName: "Stu Dent", Email: "stu@test.com", Password: "Pw1!", Role: "student",
		})
		if !errors.Is(err, ErrNoDefaultMajor) {
			t.Fatalf("expected ErrNoDefaultMajor, got %v", err)
		}
		if _, err := repo.User().GetByEmail(ctx, "stu@test.com"); err == nil {
			t.Error("no account may exist after fail-fast")
		}
		if gate.invalidations() != 0 {
			t.Error("failed create must not invalidate stats")
		}
	})

	t.Run("major fail-fast leaves the identity backend untouched", func(t *testing.T) {
		repo := newMockRepository()
		provider := &recordingIdentityProvider{Provider: identity.NewLocalProvider()}
		svc := NewUserService(
			repo,
			provider,
			&recordingStatsGate{},
			events.NewMockEventPublisher(testLogger()),
			testLogger(),
			validator.New(),
			0,
		)

		_, err := svc.Create(ctx, &CreateUserRequest{
			FullName: "Stu Dent", Email: "stu@test.com", Password: "Pw1!", Role: "student",
		})
		if !errors.Is(err, ErrNoDefaultMajor) {
			t.Fatalf("expected ErrNoDefaultMajor, got %v", err)
		}
		if n := atomic.LoadInt32(&provider.registers); n != 0 {
			t.Errorf("identity provider must not be written on fail-fast, got %d registers", n)
		}
	})

	t.Run("lecturer create works without majors", func(t *testing.T) {
		repo := newMockRepository()
		svc, _, _ := newTestUserService(repo)

		if _, err := svc.Create(ctx, &CreateUserRequest{
			FullName: "Lee Lecturer", Email: "lee2@test.com", Password: "Pw1!", Role: "lecturer",
		}); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
	})

	t.Run("explicit major wins over default", func(t *testing.T) {
		repo := newMockRepository()
		seedMajor(t, repo, 1, "CS")
		seedMajor(t, repo, 2, "Math")
		svc, _, _ := newTestUserService(repo)

		majorID := uint(2)
		user, err := svc.Create(ctx, &CreateUserRequest{
			FullName: "Stu Dent", Email: "stu2@test.com", Password: "Pw1!", Role: "student",
			MajorID: &majorID,
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		student, _ := repo.Student().GetByUserID(ctx, user.ID)
		if student.MajorID != 2 {
			t.Errorf("expected major 2, got %d", student.MajorID)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		repo := newMockRepository()
		seedMajor(t, repo, 1, "CS")
		svc, _, _ := newTestUserService(repo)

		req := &CreateUserRequest{
			FullName: "Ann", Email: "dup@test.com", Password: "Pw1!", Role: "student",
		}
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatalf("first create failed: %v", err)
		}
		if _, err := svc.Create(ctx, req); !errors.Is(err, ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("re-provisioning attaches missing role record", func(t *testing.T) {
		repo := newMockRepository()
		seedMajor(t, repo, 1, "CS")
		svc, _, _ := newTestUserService(repo)

		// Account left behind by a partial failure: no role record.
		orphan := &models.User{
			ID:       uuid.New().String(),
			FullName: "Orphan",
			Email:    "orphan@test.com",
			Role:     models.RoleStudent,
		}
		if err := repo.User().Create(ctx, orphan); err != nil {
			t.Fatalf("failed to seed orphan account: %v", err)
		}

		user, err := svc.Create(ctx, &CreateUserRequest{
			FullName: "Orphan", Email: "orphan@test.com", Password: "Pw1!", Role: "student",
		})
		if err != nil {
			t.Fatalf("expected repair to succeed, got %v", err)
		}
		if user.ID != orphan.ID {
			t.Errorf("repair must reuse the existing account, got new id %s", user.ID)
		}
		if _, err := repo.Student().GetByUserID(ctx, orphan.ID); err != nil {
			t.Errorf("expected attached student record: %v", err)
		}

		users, total, _ := repo.User().List(ctx, listAllUsers())
		if total != 1 {
			t.Errorf("expected a single account, got %d: %+v", total, users)
		}
	})

	t.Run("re-provisioning with a different role is rejected", func(t *testing.T) {
		repo := newMockRepository()
		seedMajor(t, repo, 1, "CS")
		svc, _, _ := newTestUserService(repo)

		orphan := &models.User{
			ID:       uuid.New().String(),
			FullName: "Orphan",
			Email:    "orphan@test.com",
			Role:     models.RoleStudent,
		}
		if err := repo.User().Create(ctx, orphan); err != nil {
			t.Fatalf("failed to seed orphan account: %v", err)
		}

		_, err := svc.Create(ctx, &CreateUserRequest{
			FullName: "Orphan", Email: "orphan@test.com", Password: "Pw1!", Role: "lecturer",
		})
		if !errors.Is(err, ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
		if _, err := repo.Lecturer().GetByUserID(ctx, orphan.ID); err == nil {
			t.Error("no lecturer record may be attached on role mismatch")
		}
		if _, err := repo.Student().GetByUserID(ctx, orphan.ID); err == nil {
			t.Error("no student record may be attached on role mismatch")
		}

		_, total, _ := repo.User().List(ctx, listAllUsers())
		if total != 1 {
			t.Errorf("expected a single account, got %d", total)
		}
	})

	t.Run("weak password fails with policy messages", func(t *testing.T) {
		repo := newMockRepository()
		seedMajor(t, repo, 1, "CS")
		svc, _, _ := newTestUserService(repo)

		_, err := svc.Create(ctx, &CreateUserRequest{
			FullName: "Weak", Email: "weak@test.com", Password: "nodigits", Role: "student",
		})
		var policyErr *identity.PolicyError
		if !errors.As(err, &policyErr) {
			t.Fatalf("expected PolicyError, got %v", err)
		}
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes enrollments, role record, then account", func(t *testing.T) {
		repo := newMockRepository()
		seedMajor(t, repo, 1, "CS")
		svc, gate, _ := newTestUserService(repo)

		user, err := svc.Create(ctx, &CreateUserRequest{
			FullName: "Stu Dent", Email: "del@test.com", Password: "Pw1!", Role: "student",
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		student, _ := repo.Student().GetByUserID(ctx, user.ID)

		repo.Course().Create(ctx, &models.Course{ID: 5})
		if err := repo.Enrollment().Create(ctx, &models.Enrollment{StudentID: student.ID, CourseID: 5}); err != nil {
			t.Fatalf("failed to seed enrollment: %v", err)
		}

		gateBefore := gate.invalidations()
		if err := svc.Delete(ctx, user.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		if _, err := repo.User().GetByID(ctx, user.ID); err == nil {
			t.Error("account should be gone")
		}
		if _, err := repo.Student().GetByUserID(ctx, user.ID); err == nil {
			t.Error("student record should be gone")
		}
		if list, _ := repo.Enrollment().ListByStudent(ctx, student.ID); len(list) != 0 {
			t.Errorf("enrollments should be gone, got %d", len(list))
		}
		if gate.invalidations() != gateBefore+1 {
			t.Error("delete must invalidate stats once")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := newMockRepository()
		svc, _, _ := newTestUserService(repo)

		if err := svc.Delete(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	seedMajor(t, repo, 1, "CS")
	seedMajor(t, repo, 2, "Math")
	svc, _, _ := newTestUserService(repo)

	user, err := svc.Create(ctx, &CreateUserRequest{
		FullName: "Before", Email: "upd@test.com", Password: "Pw1!", Role: "student",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	name := "After"
	phone := "0123456789"
	majorID := uint(2)
	updated, err := svc.Update(ctx, user.ID, &UpdateUserRequest{
		FullName: &name,
		Phone:    &phone,
		MajorID:  &majorID,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FullName != "After" {
		t.Errorf("expected name updated, got %s", updated.FullName)
	}
	if updated.Phone == nil || *updated.Phone != phone {
		t.Error("expected phone updated")
	}

	student, _ := repo.Student().GetByUserID(ctx, user.ID)
	if student.MajorID != 2 {
		t.Errorf("expected major moved to 2, got %d", student.MajorID)
	}
}
