package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/SoumyajitPaul-git/SplitTrip/pkg/api"
)

const (
	AuthServiceName    = "splittrip.v1.AuthService"
	TourServiceName    = "splittrip.v1.TourService"
	ExpenseServiceName = "splittrip.v1.ExpenseService"
)

// Fully-qualified procedure names.
const (
	AuthServiceRegisterProcedure       = "/splittrip.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/splittrip.v1.AuthService/Login"
	AuthServiceLogoutProcedure         = "/splittrip.v1.AuthService/Logout"
	AuthServiceGetCurrentUserProcedure = "/splittrip.v1.AuthService/GetCurrentUser"

	TourServiceCreateTourProcedure       = "/splittrip.v1.TourService/CreateTour"
	TourServiceListToursProcedure        = "/splittrip.v1.TourService/ListTours"
	TourServiceGetTourProcedure          = "/splittrip.v1.TourService/GetTour"
	TourServiceJoinTourProcedure         = "/splittrip.v1.TourService/JoinTour"
	TourServiceUpdateTourStatusProcedure = "/splittrip.v1.TourService/UpdateTourStatus"
	TourServiceGetTourReportProcedure    = "/splittrip.v1.TourService/GetTourReport"

	ExpenseServiceAddExpenseProcedure    = "/splittrip.v1.ExpenseService/AddExpense"
	ExpenseServiceGetExpenseProcedure    = "/splittrip.v1.ExpenseService/GetExpense"
	ExpenseServiceUpdateExpenseProcedure = "/splittrip.v1.ExpenseService/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure = "/splittrip.v1.ExpenseService/DeleteExpense"
	ExpenseServiceListExpensesProcedure  = "/splittrip.v1.ExpenseService/ListExpenses"
)

func servicePath(name string) string {
	return "/" + name + "/"
}

// IsProcedure reports whether path belongs to one of the SplitTrip services.
func IsProcedure(path string) bool {
	for _, name := range []string{AuthServiceName, TourServiceName, ExpenseServiceName} {
		if strings.HasPrefix(path, servicePath(name)) {
			return true
		}
	}
	return false
}

// AuthServiceHandler is implemented by the auth service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for the service and returns the path to mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return servicePath(AuthServiceName), serve(map[string]*connect.Handler{
		AuthServiceRegisterProcedure:       connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:          connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceLogoutProcedure:         connect.NewUnaryHandler(AuthServiceLogoutProcedure, svc.Logout, opts...),
		AuthServiceGetCurrentUserProcedure: connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
	})
}

// AuthServiceClient calls the auth service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

type authServiceClient struct {
	register       *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login          *connect.Client[api.LoginRequest, api.LoginResponse]
	logout         *connect.Client[api.LogoutRequest, api.LogoutResponse]
	getCurrentUser *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
}

// NewAuthServiceClient returns a client for the service at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		register:       connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:          connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		logout:         connect.NewClient[api.LogoutRequest, api.LogoutResponse](httpClient, baseURL+AuthServiceLogoutProcedure, opts...),
		getCurrentUser: connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// TourServiceHandler is implemented by the tour service.
type TourServiceHandler interface {
	CreateTour(context.Context, *connect.Request[api.CreateTourRequest]) (*connect.Response[api.CreateTourResponse], error)
	ListTours(context.Context, *connect.Request[api.ListToursRequest]) (*connect.Response[api.ListToursResponse], error)
	GetTour(context.Context, *connect.Request[api.GetTourRequest]) (*connect.Response[api.GetTourResponse], error)
	JoinTour(context.Context, *connect.Request[api.JoinTourRequest]) (*connect.Response[api.JoinTourResponse], error)
	UpdateTourStatus(context.Context, *connect.Request[api.UpdateTourStatusRequest]) (*connect.Response[api.UpdateTourStatusResponse], error)
	GetTourReport(context.Context, *connect.Request[api.GetTourReportRequest]) (*connect.Response[api.GetTourReportResponse], error)
}

// NewTourServiceHandler builds an HTTP handler for the service and returns the path to mount it on.
func NewTourServiceHandler(svc TourServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return servicePath(TourServiceName), serve(map[string]*connect.Handler{
		TourServiceCreateTourProcedure:       connect.NewUnaryHandler(TourServiceCreateTourProcedure, svc.CreateTour, opts...),
		TourServiceListToursProcedure:        connect.NewUnaryHandler(TourServiceListToursProcedure, svc.ListTours, opts...),
		TourServiceGetTourProcedure:          connect.NewUnaryHandler(TourServiceGetTourProcedure, svc.GetTour, opts...),
		TourServiceJoinTourProcedure:         connect.NewUnaryHandler(TourServiceJoinTourProcedure, svc.JoinTour, opts...),
		TourServiceUpdateTourStatusProcedure: connect.NewUnaryHandler(TourServiceUpdateTourStatusProcedure, svc.UpdateTourStatus, opts...),
		TourServiceGetTourReportProcedure:    connect.NewUnaryHandler(TourServiceGetTourReportProcedure, svc.GetTourReport, opts...),
	})
}

// TourServiceClient calls the tour service.
type TourServiceClient interface {
	CreateTour(context.Context, *connect.Request[api.CreateTourRequest]) (*connect.Response[api.CreateTourResponse], error)
	ListTours(context.Context, *connect.Request[api.ListToursRequest]) (*connect.Response[api.ListToursResponse], error)
	GetTour(context.Context, *connect.Request[api.GetTourRequest]) (*connect.Response[api.GetTourResponse], error)
	JoinTour(context.Context, *connect.Request[api.JoinTourRequest]) (*connect.Response[api.JoinTourResponse], error)
	UpdateTourStatus(context.Context, *connect.Request[api.UpdateTourStatusRequest]) (*connect.Response[api.UpdateTourStatusResponse], error)
	GetTourReport(context.Context, *connect.Request[api.GetTourReportRequest]) (*connect.Response[api.GetTourReportResponse], error)
}

type tourServiceClient struct {
	createTour       *connect.Client[api.CreateTourRequest, api.CreateTourResponse]
	listTours        *connect.Client[api.ListToursRequest, api.ListToursResponse]
	getTour          *connect.Client[api.GetTourRequest, api.GetTourResponse]
	joinTour         *connect.Client[api.JoinTourRequest, api.JoinTourResponse]
	updateTourStatus *connect.Client[api.UpdateTourStatusRequest, api.UpdateTourStatusResponse]
	getTourReport    *connect.Client[api.GetTourReportRequest, api.GetTourReportResponse]
}

// NewTourServiceClient returns a client for the service at baseURL.
func NewTourServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TourServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &tourServiceClient{
		createTour:       connect.NewClient[api.CreateTourRequest, api.CreateTourResponse](httpClient, baseURL+TourServiceCreateTourProcedure, opts...),
		listTours:        connect.NewClient[api.ListToursRequest, api.ListToursResponse](httpClient, baseURL+TourServiceListToursProcedure, opts...),
		getTour:          connect.NewClient[api.GetTourRequest, api.GetTourResponse](httpClient, baseURL+TourServiceGetTourProcedure, opts...),
		joinTour:         connect.NewClient[api.JoinTourRequest, api.JoinTourResponse](httpClient, baseURL+TourServiceJoinTourProcedure, opts...),
		updateTourStatus: connect.NewClient[api.UpdateTourStatusRequest, api.UpdateTourStatusResponse](httpClient, baseURL+TourServiceUpdateTourStatusProcedure, opts...),
		getTourReport:    connect.NewClient[api.GetTourReportRequest, api.GetTourReportResponse](httpClient, baseURL+TourServiceGetTourReportProcedure, opts...),
	}
}

func (c *tourServiceClient) CreateTour(ctx context.Context, req *connect.Request[api.CreateTourRequest]) (*connect.Response[api.CreateTourResponse], error) {
	return c.createTour.CallUnary(ctx, req)
}

func (c *tourServiceClient) ListTours(ctx context.Context, req *connect.Request[api.ListToursRequest]) (*connect.Response[api.ListToursResponse], error) {
	return c.listTours.CallUnary(ctx, req)
}

func (c *tourServiceClient) GetTour(ctx context.Context, req *connect.Request[api.GetTourRequest]) (*connect.Response[api.GetTourResponse], error) {
	return c.getTour.CallUnary(ctx, req)
}

func (c *tourServiceClient) JoinTour(ctx context.Context, req *connect.Request[api.JoinTourRequest]) (*connect.Response[api.JoinTourResponse], error) {
	return c.joinTour.CallUnary(ctx, req)
}

func (c *tourServiceClient) UpdateTourStatus(ctx context.Context, req *connect.Request[api.UpdateTourStatusRequest]) (*connect.Response[api.UpdateTourStatusResponse], error) {
	return c.updateTourStatus.CallUnary(ctx, req)
}

func (c *tourServiceClient) GetTourReport(ctx context.Context, req *connect.Request[api.GetTourReportRequest]) (*connect.Response[api.GetTourReportResponse], error) {
	return c.getTourReport.CallUnary(ctx, req)
}

// ExpenseServiceHandler is implemented by the expense service.
type ExpenseServiceHandler interface {
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler for the service and returns the path to mount it on.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return servicePath(ExpenseServiceName), serve(map[string]*connect.Handler{
		ExpenseServiceAddExpenseProcedure:    connect.NewUnaryHandler(ExpenseServiceAddExpenseProcedure, svc.AddExpense, opts...),
		ExpenseServiceGetExpenseProcedure:    connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...),
		ExpenseServiceUpdateExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...),
		ExpenseServiceDeleteExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		ExpenseServiceListExpensesProcedure:  connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...),
	})
}

// ExpenseServiceClient calls the expense service.
type ExpenseServiceClient interface {
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
}

type expenseServiceClient struct {
	addExpense    *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	getExpense    *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	updateExpense *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	deleteExpense *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	listExpenses  *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
}

// NewExpenseServiceClient returns a client for the service at baseURL.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &expenseServiceClient{
		addExpense:    connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+ExpenseServiceAddExpenseProcedure, opts...),
		getExpense:    connect.NewClient[api.GetExpenseRequest, api.GetExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		updateExpense: connect.NewClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](httpClient, baseURL+ExpenseServiceUpdateExpenseProcedure, opts...),
		deleteExpense: connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
		listExpenses:  connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
	}
}

func (c *expenseServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}
