package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/employee-portal/internal/core/authz"
	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req = httptest.NewRequest(method, target, nil)
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withPrincipal(c echo.Context, id string, role domain.Role) *domain.Principal {
	p := authz.DefaultPolicy().Principal(domain.Identity{
		ID:       id,
		Username: id,
		Email:    id + "@company.com",
		Role:     role,
		IsActive: true,
	})
	c.Set("principal", p)
	return p
}

// --- AuthService ---

type stubAuthService struct {
	registerFn func(ctx context.Context, reg domain.Registration) (*domain.Session, error)
	loginFn    func(ctx context.Context, login, password string) (*domain.Session, error)
	logoutFn   func(ctx context.Context, identityID string) error
}

func (s *stubAuthService) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	return s.registerFn(ctx, reg)
}

func (s *stubAuthService) Login(ctx context.Context, login, password string) (*domain.Session, error) {
	return s.loginFn(ctx, login, password)
}

func (s *stubAuthService) Logout(ctx context.Context, identityID string) error {
	return s.logoutFn(ctx, identityID)
}

func (s *stubAuthService) CurrentSession(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrSessionNotFound
}

// --- EmployeeService ---

type stubEmployeeService struct {
	listFn     func(ctx context.Context, p *domain.Principal, in ports.ListEmployeesInput) (*ports.ListEmployeesResult, error)
	getFn      func(ctx context.Context, p *domain.Principal, id string) (*ports.EmployeeView, error)
	createFn   func(ctx context.Context, p *domain.Principal, e domain.Employee) (*ports.EmployeeView, error)
	updateFn   func(ctx context.Context, p *domain.Principal, id string, e domain.Employee) (*ports.EmployeeView, error)
	deleteFn   func(ctx context.Context, p *domain.Principal, id string) error
	promoteFn  func(ctx context.Context, p *domain.Principal, id, positionID string, salary *float64) (*ports.EmployeeActionResult, error)
	transferFn func(ctx context.Context, p *domain.Principal, id, departmentID string) (*ports.EmployeeActionResult, error)
	salaryFn   func(ctx context.Context, p *domain.Principal, id string, salary float64) (*ports.EmployeeActionResult, error)
}

func (s *stubEmployeeService) ListEmployees(ctx context.Context, p *domain.Principal, in ports.ListEmployeesInput) (*ports.ListEmployeesResult, error) {
	return s.listFn(ctx, p, in)
}

func (s *stubEmployeeService) GetEmployee(ctx context.Context, p *domain.Principal, id string) (*ports.EmployeeView, error) {
	return s.getFn(ctx, p, id)
}

func (s *stubEmployeeService) CreateEmployee(ctx context.Context, p *domain.Principal, e domain.Employee) (*ports.EmployeeView, error) {
	return s.createFn(ctx, p, e)
}

func (s *stubEmployeeService) UpdateEmployee(ctx context.Context, p *domain.Principal, id string, e domain.Employee) (*ports.EmployeeView, error) {
	return s.updateFn(ctx, p, id, e)
}

func (s *stubEmployeeService) DeleteEmployee(ctx context.Context, p *domain.Principal, id string) error {
	return s.deleteFn(ctx, p, id)
}

func (s *stubEmployeeService) PromoteEmployee(ctx context.Context, p *domain.Principal, id, positionID string, salary *float64) (*ports.EmployeeActionResult, error) {
	return s.promoteFn(ctx, p, id, positionID, salary)
}

func (s *stubEmployeeService) TransferEmployee(ctx context.Context, p *domain.Principal, id, departmentID string) (*ports.EmployeeActionResult, error) {
	return s.transferFn(ctx, p, id, departmentID)
}

func (s *stubEmployeeService) UpdateSalary(ctx context.Context, p *domain.Principal, id string, salary float64) (*ports.EmployeeActionResult, error) {
	return s.salaryFn(ctx, p, id, salary)
}

// --- TimeSheetService ---

type stubTimeSheetService struct {
	listFn    func(ctx context.Context, p *domain.Principal, in ports.ListTimeSheetsInput) ([]*domain.TimeSheet, error)
	createFn  func(ctx context.Context, p *domain.Principal, t domain.TimeSheet) (*domain.TimeSheet, error)
	stepFn    func(action, id string) (*ports.TimeSheetActionResult, error)
	deleteFn  func(ctx context.Context, p *domain.Principal, id string) error
	hoursFn   func(ctx context.Context, p *domain.Principal, employeeID string) (*domain.TimeSheetHours, error)
	getResult *domain.TimeSheet
}

func (s *stubTimeSheetService) ListTimeSheets(ctx context.Context, p *domain.Principal, in ports.ListTimeSheetsInput) ([]*domain.TimeSheet, error) {
	return s.listFn(ctx, p, in)
}

func (s *stubTimeSheetService) GetTimeSheet(context.Context, *domain.Principal, string) (*domain.TimeSheet, error) {
	if s.getResult == nil {
		return nil, domain.ErrNotFound
	}
	return s.getResult, nil
}

func (s *stubTimeSheetService) CreateTimeSheet(ctx context.Context, p *domain.Principal, t domain.TimeSheet) (*domain.TimeSheet, error) {
	return s.createFn(ctx, p, t)
}

func (s *stubTimeSheetService) SubmitTimeSheet(_ context.Context, _ *domain.Principal, id string) (*ports.TimeSheetActionResult, error) {
	return s.stepFn("submit", id)
}

func (s *stubTimeSheetService) ApproveTimeSheet(_ context.Context, _ *domain.Principal, id string) (*ports.TimeSheetActionResult, error) {
	return s.stepFn("approve", id)
}

func (s *stubTimeSheetService) RejectTimeSheet(_ context.Context, _ *domain.Principal, id string) (*ports.TimeSheetActionResult, error) {
	return s.stepFn("reject", id)
}

func (s *stubTimeSheetService) DeleteTimeSheet(ctx context.Context, p *domain.Principal, id string) error {
	return s.deleteFn(ctx, p, id)
}

func (s *stubTimeSheetService) TimeSheetHours(ctx context.Context, p *domain.Principal, employeeID string) (*domain.TimeSheetHours, error) {
	return s.hoursFn(ctx, p, employeeID)
}

// --- LeaveService ---

type stubLeaveService struct {
	createFn  func(ctx context.Context, p *domain.Principal, l domain.Leave) (*domain.Leave, error)
	approveFn func(ctx context.Context, p *domain.Principal, id, comments string) (*ports.LeaveActionResult, error)
	rejectFn  func(ctx context.Context, p *domain.Principal, id, reason string) (*ports.LeaveActionResult, error)
	balanceFn func(ctx context.Context, p *domain.Principal, employeeID string) (*domain.LeaveBalance, error)
	listFn    func(ctx context.Context, p *domain.Principal, in ports.ListLeavesInput) ([]*domain.Leave, error)
}

func (s *stubLeaveService) ListLeaves(ctx context.Context, p *domain.Principal, in ports.ListLeavesInput) ([]*domain.Leave, error) {
	return s.listFn(ctx, p, in)
}

func (s *stubLeaveService) GetLeave(context.Context, *domain.Principal, string) (*domain.Leave, error) {
	return nil, domain.ErrNotFound
}

func (s *stubLeaveService) CreateLeave(ctx context.Context, p *domain.Principal, l domain.Leave) (*domain.Leave, error) {
	return s.createFn(ctx, p, l)
}

func (s *stubLeaveService) ApproveLeave(ctx context.Context, p *domain.Principal, id, comments string) (*ports.LeaveActionResult, error) {
	return s.approveFn(ctx, p, id, comments)
}

func (s *stubLeaveService) RejectLeave(ctx context.Context, p *domain.Principal, id, reason string) (*ports.LeaveActionResult, error) {
	return s.rejectFn(ctx, p, id, reason)
}

func (s *stubLeaveService) LeaveBalance(ctx context.Context, p *domain.Principal, employeeID string) (*domain.LeaveBalance, error) {
	return s.balanceFn(ctx, p, employeeID)
}

// --- ReportService ---

type stubReportService struct {
	count int64
	stats []domain.DepartmentStatistic
	err   error
}

func (s *stubReportService) EmployeeCount(context.Context, *domain.Principal) (int64, error) {
	return s.count, s.err
}

func (s *stubReportService) DepartmentStatistics(context.Context, *domain.Principal) ([]domain.DepartmentStatistic, error) {
	return s.stats, s.err
}
