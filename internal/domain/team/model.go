package team

import (
	"time"

	"github.com/pratik-mahalle/processimo/internal/domain/agent"
)

// WorkflowStep is one stage of a team's plan. AgentID links the step to a
// member agent; AgentName is rendered from that agent when the link resolves.
type WorkflowStep struct {
	Step        int    `json:"step" yaml:"step" validate:"gte=1"`
	Description string `json:"description" yaml:"description" validate:"required"`
	AgentName   string `json:"agentName" yaml:"agentName"`
	AgentID     *int64 `json:"agentId" yaml:"agentId,omitempty"`
}

// Team is a bundle of agents sold as one product
type Team struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Price         int64          `json:"price"` // minor currency units
	Target        string         `json:"target"`
	Impact        string         `json:"impact"`
	Workflow      []WorkflowStep `json:"workflow"`
	IconClass     string         `json:"iconClass"`
	GradientClass string         `json:"gradientClass"`
	IsPopular     bool           `json:"isPopular"`
	IsFeatured    bool           `json:"isFeatured"`
	CreatedBy     *int64         `json:"createdBy"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// Featured reports whether the team belongs on the featured list
func (t *Team) Featured() bool {
	return t.IsPopular || t.IsFeatured
}

// Clone returns a deep copy of t
func (t *Team) Clone() *Team {
	c := *t
	c.Workflow = CloneWorkflow(t.Workflow)
	if t.CreatedBy != nil {
		v := *t.CreatedBy
		c.CreatedBy = &v
	}
	return &c
}

// CloneWorkflow copies steps so callers cannot alias stored data
func CloneWorkflow(steps []WorkflowStep) []WorkflowStep {
	if steps == nil {
		return nil
	}
	out := make([]WorkflowStep, len(steps))
	for i, s := range steps {
		out[i] = s
		if s.AgentID != nil {
			v := *s.AgentID
			out[i].AgentID = &v
		}
	}
	return out
}

// Detail is a team together with its member agents
type Detail struct {
	*Team
	Agents []*agent.Agent `json:"agents"`
}

// Patch is a partial update. Nil fields are left unchanged; a non-nil
// Workflow replaces the whole plan.
type Patch struct {
	Name          *string         `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string         `json:"description,omitempty"`
	Category      *string         `json:"category,omitempty"`
	Price         *int64          `json:"price,omitempty" validate:"omitempty,gte=0"`
	Target        *string         `json:"target,omitempty"`
	Impact        *string         `json:"impact,omitempty"`
	Workflow      *[]WorkflowStep `json:"workflow,omitempty" validate:"omitempty,dive"`
	IconClass     *string         `json:"iconClass,omitempty"`
	GradientClass *string         `json:"gradientClass,omitempty"`
	IsPopular     *bool           `json:"isPopular,omitempty"`
	IsFeatured    *bool           `json:"isFeatured,omitempty"`
}

// Apply merges p over t
func (p Patch) Apply(t *Team) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Price != nil {
		t.Price = *p.Price
	}
	if p.Target != nil {
		t.Target = *p.Target
	}
	if p.Impact != nil {
		t.Impact = *p.Impact
	}
	if p.Workflow != nil {
		t.Workflow = CloneWorkflow(*p.Workflow)
	}
	if p.IconClass != nil {
		t.IconClass = *p.IconClass
	}
	if p.GradientClass != nil {
		t.GradientClass = *p.GradientClass
	}
	if p.IsPopular != nil {
		t.IsPopular = *p.IsPopular
	}
	if p.IsFeatured != nil {
		t.IsFeatured = *p.IsFeatured
	}
}
