package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/dashboard/dto"
	"schoolhub_backend/internals/features/reports/presenter"
	helper "schoolhub_backend/internals/helpers"
)

// Strategy builds the dashboard for one role.
type Strategy func(ctx context.Context, v dto.Viewer) (*dto.Dashboard, error)

type DashboardService struct {
	DB  *gorm.DB
	Now func() time.Time

	strategies map[string]Strategy
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	s := &DashboardService{DB: db, Now: time.Now}
	s.strategies = map[string]Strategy{
		constants.RoleAdmin:   s.admin,
		constants.RoleTeacher: s.teacher,
		constants.RoleStudent: s.student,
		constants.RoleParent:  s.parent,
	}
	return s
}

// Roles lists the roles that have a dashboard.
func (s *DashboardService) Roles() []string {
	out := make([]string, 0, len(s.strategies))
	for _, r := range constants.AllRoles {
		if _, ok := s.strategies[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Build dispatches on the viewer's role; roles without a strategy are forbidden.
func (s *DashboardService) Build(ctx context.Context, v dto.Viewer) (*dto.Dashboard, error) {
	build, ok := s.strategies[v.Role]
	if !ok {
		return nil, helper.Forbidden("No dashboard for role " + v.Role)
	}
	d, err := build(ctx, v)
	if err != nil {
		return nil, err
	}
	d.Role = v.Role
	d.GeneratedAt = s.Now()
	if d.Greeting == "" {
		d.Greeting = "Welcome back"
		if v.Name != "" {
			d.Greeting += ", " + v.Name
		}
	}
	if d.Cards == nil {
		d.Cards = []presenter.StatCard{}
	}
	return d, nil
}

// settle logs failed reads and reports whether any failed.
func settle(role string, errs []error) bool {
	partial := false
	for _, err := range errs {
		if err != nil {
			partial = true
			configs.Logger("dashboard").Error().Err(err).Str("role", role).Msg("[DASHBOARD] read failed")
		}
	}
	return partial
}

func today(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
