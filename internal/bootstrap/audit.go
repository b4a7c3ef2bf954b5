package bootstrap

import "context"

// AuditLog is one structured audit entry. Run-level payroll mutations log
// one of these before the change is applied.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger is the log-sink facade; implementations decide where entries
// land.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
