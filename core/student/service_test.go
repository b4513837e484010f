package student_test

import (
	"context"
	"testing"

	"github.com/mahudhurio/backend/core"
	"github.com/mahudhurio/backend/core/student"
	dummydb "github.com/mahudhurio/backend/storage/database/dummy"
	testutil "github.com/mahudhurio/backend/tests"
)

func setup(t *testing.T) (*student.Service, student.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewStudentRepository(db)
	return student.NewService(repo), repo
}

func TestService_Create(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	std, err := svc.Create(ctx, student.NewStudent{ID: "Jane_Doe", Name: "Jane Doe", ClassID: "CS101"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if std.ID != "Jane_Doe" || std.ClassID != "CS101" {
		t.Errorf("Create() = %+v", std)
	}
	if std.CreatedAt.IsZero() || std.UpdatedAt.IsZero() {
		t.Error("Create() timestamps not set")
	}

	// duplicate IDs are rejected as a field error
	_, err = svc.Create(ctx, student.NewStudent{ID: "Jane_Doe", Name: "Jane Doe II", ClassID: "CS101"})
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("Create() error = %v, want *core.ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "id" {
		t.Errorf("Create() fields = %+v", vErr.Fields)
	}
}

func TestService_GetByID(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	jane := testutil.CreateStudent(t, repo, "Jane_Doe", "Jane Doe", "CS101")

	std, err := svc.GetByID(ctx, jane.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if std.Name != jane.Name {
		t.Errorf("GetByID() = %+v", std)
	}

	if _, err = svc.GetByID(ctx, "nope"); err != student.ErrNotFound {
		t.Errorf("GetByID() error = %v, want %v", err, student.ErrNotFound)
	}
}

func TestService_ForClass(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	testutil.CreateStudent(t, repo, "Jane_Doe", "Jane Doe", "CS101")
	testutil.CreateStudent(t, repo, "John_Smith", "John Smith", "CS101")
	testutil.CreateStudent(t, repo, "Ada_L", "Ada L", "CS102")

	roster, err := svc.ForClass(ctx, "CS101")
	if err != nil {
		t.Fatalf("ForClass() failed: %v", err)
	}
	if len(roster) != 2 {
		t.Errorf("ForClass() len = %d, want 2", len(roster))
	}

	// empty class ID returns everyone
	all, err := svc.ForClass(ctx, "")
	if err != nil {
		t.Fatalf("ForClass() failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ForClass() len = %d, want 3", len(all))
	}

	none, err := svc.ForClass(ctx, "CS103")
	if err != nil {
		t.Fatalf("ForClass() failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ForClass() len = %d, want 0", len(none))
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	jane := testutil.CreateStudent(t, repo, "Jane_Doe", "Jane Doe", "CS101")

	if err := svc.Delete(ctx, jane.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, jane.ID); err != student.ErrNotFound {
		t.Errorf("GetByID() after delete error = %v, want %v", err, student.ErrNotFound)
	}

	if err := svc.Delete(ctx, "nope"); err != student.ErrNotFound {
		t.Errorf("Delete() error = %v, want %v", err, student.ErrNotFound)
	}
}
