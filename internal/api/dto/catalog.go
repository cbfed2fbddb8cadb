package dto

import (
	"github.com/pratik-mahalle/processimo/internal/domain/agent"
	"github.com/pratik-mahalle/processimo/internal/domain/team"
)

// CreateAgentRequest is the admin payload for a new agent
type CreateAgentRequest struct {
	Name          string  `json:"name" validate:"required,notblank,max=200"`
	Description   string  `json:"description" validate:"required"`
	Price         int64   `json:"price" validate:"gte=0"`
	Category      string  `json:"category" validate:"required"`
	Features      string  `json:"features"`
	IconClass     string  `json:"iconClass"`
	IconBgClass   string  `json:"iconBgClass"`
	GradientClass string  `json:"gradientClass"`
	IsPopular     bool    `json:"isPopular"`
	IsNew         bool    `json:"isNew"`
	IsEnterprise  bool    `json:"isEnterprise"`
	TeamID        *int64  `json:"teamId,omitempty" validate:"omitempty,gt=0"`
	TeamRole      *string `json:"teamRole,omitempty"`
}

// ToAgent builds the domain agent owned by createdBy
func (r CreateAgentRequest) ToAgent(createdBy int64) *agent.Agent {
	return &agent.Agent{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Category:      r.Category,
		Features:      r.Features,
		IconClass:     r.IconClass,
		IconBgClass:   r.IconBgClass,
		GradientClass: r.GradientClass,
		IsPopular:     r.IsPopular,
		IsNew:         r.IsNew,
		IsEnterprise:  r.IsEnterprise,
		TeamID:        r.TeamID,
		TeamRole:      r.TeamRole,
		CreatedBy:     &createdBy,
	}
}

// CreateTeamRequest is the admin payload for a new agent team
type CreateTeamRequest struct {
	Name          string              `json:"name" validate:"required,notblank,max=200"`
	Description   string              `json:"description" validate:"required"`
	Category      string              `json:"category" validate:"required"`
	Price         int64               `json:"price" validate:"gte=0"`
	Target        string              `json:"target"`
	Impact        string              `json:"impact"`
	Workflow      []team.WorkflowStep `json:"workflow" validate:"dive"`
	IconClass     string              `json:"iconClass"`
	GradientClass string              `json:"gradientClass"`
	IsPopular     bool                `json:"isPopular"`
	IsFeatured    bool                `json:"isFeatured"`
}

// ToTeam builds the domain team owned by createdBy
func (r CreateTeamRequest) ToTeam(createdBy int64) *team.Team {
	return &team.Team{
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		Price:         r.Price,
		Target:        r.Target,
		Impact:        r.Impact,
		Workflow:      r.Workflow,
		IconClass:     r.IconClass,
		GradientClass: r.GradientClass,
		IsPopular:     r.IsPopular,
		IsFeatured:    r.IsFeatured,
		CreatedBy:     &createdBy,
	}
}
