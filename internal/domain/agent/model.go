package agent

import "time"

// Agent is a single purchasable AI agent
type Agent struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"` // minor currency units
	Category      string    `json:"category"`
	Features      string    `json:"features"`
	IconClass     string    `json:"iconClass"`
	IconBgClass   string    `json:"iconBgClass"`
	GradientClass string    `json:"gradientClass"`
	IsPopular     bool      `json:"isPopular"`
	IsNew         bool      `json:"isNew"`
	IsEnterprise  bool      `json:"isEnterprise"`
	TeamID        *int64    `json:"teamId"`
	TeamRole      *string   `json:"teamRole"`
	CreatedBy     *int64    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// IsFeatured reports whether any badge flag is set
func (a *Agent) IsFeatured() bool {
	return a.IsPopular || a.IsNew || a.IsEnterprise
}

// Clone returns a copy that shares no pointers with a
func (a *Agent) Clone() *Agent {
	c := *a
	if a.TeamID != nil {
		v := *a.TeamID
		c.TeamID = &v
	}
	if a.TeamRole != nil {
		v := *a.TeamRole
		c.TeamRole = &v
	}
	if a.CreatedBy != nil {
		v := *a.CreatedBy
		c.CreatedBy = &v
	}
	return &c
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string `json:"description,omitempty"`
	Price         *int64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category      *string `json:"category,omitempty"`
	Features      *string `json:"features,omitempty"`
	IconClass     *string `json:"iconClass,omitempty"`
	IconBgClass   *string `json:"iconBgClass,omitempty"`
	GradientClass *string `json:"gradientClass,omitempty"`
	IsPopular     *bool   `json:"isPopular,omitempty"`
	IsNew         *bool   `json:"isNew,omitempty"`
	IsEnterprise  *bool   `json:"isEnterprise,omitempty"`
	TeamID        *int64  `json:"teamId,omitempty"`
	TeamRole      *string `json:"teamRole,omitempty"`
	// ClearTeam detaches the agent from its team. It wins over TeamID.
	ClearTeam bool `json:"clearTeam,omitempty"`
}

// Apply merges p over a
func (p Patch) Apply(a *Agent) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Price != nil {
		a.Price = *p.Price
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Features != nil {
		a.Features = *p.Features
	}
	if p.IconClass != nil {
		a.IconClass = *p.IconClass
	}
	if p.IconBgClass != nil {
		a.IconBgClass = *p.IconBgClass
	}
	if p.GradientClass != nil {
		a.GradientClass = *p.GradientClass
	}
	if p.IsPopular != nil {
		a.IsPopular = *p.IsPopular
	}
	if p.IsNew != nil {
		a.IsNew = *p.IsNew
	}
	if p.IsEnterprise != nil {
		a.IsEnterprise = *p.IsEnterprise
	}
	if p.TeamID != nil {
		v := *p.TeamID
		a.TeamID = &v
	}
	if p.TeamRole != nil {
		v := *p.TeamRole
		a.TeamRole = &v
	}
	if p.ClearTeam {
		a.TeamID = nil
		a.TeamRole = nil
	}
}
