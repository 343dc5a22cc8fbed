package admin

import "github.com/BruksfildServices01/restaurant-app/internal/audit"

// Auditor receives admin actions; *audit.Dispatcher in production.
type Auditor interface {
	Dispatch(ev audit.Event)
}

type nopAuditor struct{}

func (nopAuditor) Dispatch(audit.Event) {}

func auditorOrNop(a Auditor) Auditor {
	if a == nil {
		return nopAuditor{}
	}
	return a
}

func ptr(v uint) *uint { return &v }
