package work

import (
	"time"

	"github.com/shopspring/decimal"
)

type Contract struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"ownerId"`
	Employer    string          `json:"employer"`
	BaseSalary  decimal.Decimal `json:"baseSalary"`
	Currency    string          `json:"currency"`
	WeeklyHours float64         `json:"weeklyHours"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type TimeEntry struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	ContractID    string    `json:"contractId"`
	EntryDate     time.Time `json:"entryDate"`
	StartTime     string    `json:"startTime,omitempty"`
	RegularHours  float64   `json:"regularHours"`
	OvertimeHours float64   `json:"overtimeHours"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type OvertimePolicy struct {
	ID                 string    `json:"id"`
	OwnerID            string    `json:"ownerId"`
	MaxWeeklyHours     float64   `json:"maxWeeklyHours"`
	MaxMonthlyOvertime float64   `json:"maxMonthlyOvertime"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
