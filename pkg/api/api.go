// Package api defines the request and response messages of the SplitTrip RPC API.
//
// Messages are plain structs encoded as JSON. Money is always a decimal string
// with two places ("700.00"); timestamps are Unix seconds.
package api

// User is the public view of an account.
type User struct {
	Id          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// Member is one person in a tour.
type Member struct {
	UserId    string `json:"userId"`
	Name      string `json:"name"`
	JoinedAt  int64  `json:"joinedAt"`
	IsCaptain bool   `json:"isCaptain"`
}

// Tour is a trip and its members. Status is planning, active or completed.
type Tour struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Destination string    `json:"destination"`
	StartDate   int64     `json:"startDate"`
	EndDate     int64     `json:"endDate"`
	Status      string    `json:"status"`
	CaptainId   string    `json:"captainId"`
	JoinCode    string    `json:"joinCode"`
	Members     []*Member `json:"members"`
	CreatedAt   int64     `json:"createdAt"`
}

type CreateTourRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Destination string `json:"destination"`
	StartDate   int64  `json:"startDate"`
	EndDate     int64  `json:"endDate"`
}

type CreateTourResponse struct {
	Tour *Tour `json:"tour"`
}

type ListToursRequest struct{}

type ListToursResponse struct {
	Tours []*Tour `json:"tours"`
}

type GetTourRequest struct {
	TourId string `json:"tourId"`
}

type GetTourResponse struct {
	Tour *Tour `json:"tour"`
}

type JoinTourRequest struct {
	JoinCode string `json:"joinCode"`
}

type JoinTourResponse struct {
	Tour *Tour `json:"tour"`
}

type UpdateTourStatusRequest struct {
	TourId string `json:"tourId"`
	Status string `json:"status"`
}

type UpdateTourStatusResponse struct {
	Tour *Tour `json:"tour"`
}

type GetTourReportRequest struct {
	TourId string `json:"tourId"`
}

type GetTourReportResponse struct {
	Report *TourReport `json:"report"`
}

// Expense is a recorded payment. SplitType is equal or custom; CustomSplits
// maps user ID to owed amount and is only set for custom splits.
type Expense struct {
	Id             string            `json:"id"`
	TourId         string            `json:"tourId"`
	Description    string            `json:"description"`
	Category       string            `json:"category"`
	Amount         string            `json:"amount"`
	PayerId        string            `json:"payerId"`
	PayerName      string            `json:"payerName"`
	ParticipantIds []string          `json:"participantIds"`
	SplitType      string            `json:"splitType"`
	CustomSplits   map[string]string `json:"customSplits,omitempty"`
	Date           int64             `json:"date"`
	CreatedBy      string            `json:"createdBy"`
	CreatedAt      int64             `json:"createdAt"`
}

// ExpenseInput carries the editable fields of an expense.
// An empty PayerId means the caller paid; a zero Date means now.
type ExpenseInput struct {
	Description    string            `json:"description"`
	Category       string            `json:"category"`
	Amount         string            `json:"amount"`
	PayerId        string            `json:"payerId"`
	ParticipantIds []string          `json:"participantIds"`
	SplitType      string            `json:"splitType"`
	CustomSplits   map[string]string `json:"customSplits,omitempty"`
	Date           int64             `json:"date"`
}

type AddExpenseRequest struct {
	TourId  string        `json:"tourId"`
	Expense *ExpenseInput `json:"expense"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseId string `json:"expenseId"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	ExpenseId string        `json:"expenseId"`
	Expense   *ExpenseInput `json:"expense"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseId string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

type ListExpensesRequest struct {
	TourId string `json:"tourId"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// TourReport is the settle-up view of a tour.
type TourReport struct {
	Tour        *TourHeader    `json:"tour"`
	Summary     *ReportSummary `json:"summary"`
	Balances    []*Balance     `json:"balances"`
	Settlements []*Settlement  `json:"settlements"`
	Expenses    []*Expense     `json:"expenses"`
	GeneratedAt int64          `json:"generatedAt"`
}

type TourHeader struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Destination string `json:"destination"`
	StartDate   int64  `json:"startDate"`
	EndDate     int64  `json:"endDate"`
	Status      string `json:"status"`
}

type ReportSummary struct {
	TotalExpenses     string `json:"totalExpenses"`
	TotalMembers      int    `json:"totalMembers"`
	TotalTransactions int    `json:"totalTransactions"`
	// CategoryBreakdown maps category to the total spent in it.
	CategoryBreakdown map[string]string `json:"categoryBreakdown"`
}

// Balance is one member's position. Positive NetBalance means the member is owed money.
type Balance struct {
	UserId     string `json:"userId"`
	Name       string `json:"name"`
	TotalPaid  string `json:"totalPaid"`
	TotalShare string `json:"totalShare"`
	NetBalance string `json:"netBalance"`
}

// Settlement is one payment that moves the group toward settled.
type Settlement struct {
	FromId   string `json:"fromId"`
	FromName string `json:"fromName"`
	ToId     string `json:"toId"`
	ToName   string `json:"toName"`
	Amount   string `json:"amount"`
}
