package service

import (
	"context"
	"errors"
	"testing"

	"github.com/99minutos/employee-portal/internal/core/authz"
	"github.com/99minutos/employee-portal/internal/core/domain"
)

func newOrganizationFixture() (*OrganizationService, *stubDepartmentRepo, *stubPositionRepo) {
	employees := newStubEmployeeRepo(seededEmployees()...)
	departments := newStubDepartmentRepo(&domain.Department{ID: "d-eng", Name: "Engineering"})
	positions := newStubPositionRepo(&domain.Position{ID: "p-dev", Title: "Developer"})
	return NewOrganizationService(departments, positions, authz.NewGate(employees), nopLogger()), departments, positions
}

func TestOrganizationService_DepartmentCRUD(t *testing.T) {
	svc, repo, _ := newOrganizationFixture()
	ctx := context.Background()

	created, err := svc.CreateDepartment(ctx, managerPrincipal, domain.Department{Name: "  Finance "})
	if err != nil {
		t.Fatalf("CreateDepartment: %v", err)
	}
	if created.ID == "" || created.Name != "Finance" {
		t.Fatalf("unexpected department %+v", created)
	}

	updated, err := svc.UpdateDepartment(ctx, managerPrincipal, created.ID, domain.Department{Name: "Finance & Legal"})
	if err != nil || updated.Name != "Finance & Legal" {
		t.Fatalf("UpdateDepartment: %+v, %v", updated, err)
	}

	list, err := svc.ListDepartments(ctx, annPrincipal)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListDepartments: %d, %v", len(list), err)
	}

	if err := svc.DeleteDepartment(ctx, managerPrincipal, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("managers lack Employee.Delete, got %v", err)
	}
	if err := svc.DeleteDepartment(ctx, adminPrincipal, created.ID); err != nil {
		t.Fatalf("DeleteDepartment: %v", err)
	}
	if _, err := svc.GetDepartment(ctx, annPrincipal, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	if repo.writes != 3 {
		t.Errorf("want 3 writes, got %d", repo.writes)
	}
}

func TestOrganizationService_DepartmentValidation(t *testing.T) {
	svc, repo, _ := newOrganizationFixture()

	if _, err := svc.CreateDepartment(context.Background(), adminPrincipal, domain.Department{Name: " "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if _, err := svc.CreateDepartment(context.Background(), annPrincipal, domain.Department{Name: "Sales"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if repo.writes != 0 {
		t.Fatalf("nothing may be written")
	}
}

func TestOrganizationService_PositionCRUD(t *testing.T) {
	svc, _, repo := newOrganizationFixture()
	ctx := context.Background()

	created, err := svc.CreatePosition(ctx, adminPrincipal, domain.Position{Title: "Architect", Level: "L6"})
	if err != nil {
		t.Fatalf("CreatePosition: %v", err)
	}
	got, err := svc.GetPosition(ctx, annPrincipal, created.ID)
	if err != nil || got.Title != "Architect" || got.Level != "L6" {
		t.Fatalf("GetPosition: %+v, %v", got, err)
	}
	if _, err := svc.UpdatePosition(ctx, adminPrincipal, "missing", domain.Position{Title: "X"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := svc.CreatePosition(ctx, adminPrincipal, domain.Position{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if err := svc.DeletePosition(ctx, adminPrincipal, created.ID); err != nil {
		t.Fatalf("DeletePosition: %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("want only the seeded position left, got %d", len(repo.byID))
	}
}
