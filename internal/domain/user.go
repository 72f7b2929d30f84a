package domain

import (
	"time"
)

type Rank string

const (
	RankAssociate       Rank = "associate"
	RankSeniorAssociate Rank = "senior_associate"
	RankTeamLead        Rank = "team_lead"
	RankManager         Rank = "manager"
	RankSeniorManager   Rank = "senior_manager"
)

type CompanyUser struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"companyID"`
	DepartmentID int64     `json:"departmentID"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Rank         Rank      `json:"rank"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
