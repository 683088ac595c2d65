package audit

import (
	"context"
	"encoding/json"
	"log"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// LogAuditLogger implements domain.AuditLogger by writing events as JSON
// lines to the process log. Swapping in a queue-backed implementation is a
// container change only.
type LogAuditLogger struct {
	logger *log.Logger
}

// NewLogAuditLogger creates an audit logger writing to the default logger
func NewLogAuditLogger() *LogAuditLogger {
	return &LogAuditLogger{logger: log.Default()}
}

// LogEvent implements domain.AuditLogger
func (l *LogAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	l.logger.Printf("audit: %s", payload)
	return nil
}

var _ domain.AuditLogger = (*LogAuditLogger)(nil)
