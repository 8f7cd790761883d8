package tree

import (
	"fmt"

	"github.com/goliatone/go-cms-layout/internal/logging"
	"github.com/goliatone/go-cms-layout/pkg/interfaces"
)

// Notice levels.
const (
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Notice is the last message reported on the page's log surface.
type Notice struct {
	Level   string
	Message string
}

type pageLog struct {
	logger interfaces.Logger
	notice Notice
}

func newPageLog(logger interfaces.Logger) *pageLog {
	return &pageLog{logger: logging.Ensure(logger)}
}

func (l *pageLog) nodeLogger(node Node) interfaces.Logger {
	if node == nil {
		return l.logger
	}
	return logging.WithFields(l.logger, map[string]any{"node": node.String()})
}

func (l *pageLog) info(node Node, event, message string, args ...any) {
	if l == nil {
		return
	}
	l.nodeLogger(node).Info(event, args...)
	l.notice = Notice{Level: NoticeInfo, Message: message}
}

func (l *pageLog) debug(node Node, event string, args ...any) {
	if l == nil {
		return
	}
	l.nodeLogger(node).Debug(event, args...)
}

func (l *pageLog) warn(node Node, event string, err error, args ...any) {
	if l == nil {
		return
	}
	if err != nil {
		args = append(args, "error", err)
	}
	l.nodeLogger(node).Warn(event, args...)
	l.notice = Notice{Level: NoticeWarning, Message: describe(node, event, err)}
}

func (l *pageLog) error(node Node, event string, err error, args ...any) {
	if l == nil {
		return
	}
	if err != nil {
		args = append(args, "error", err)
	}
	l.nodeLogger(node).Error(event, args...)
	l.notice = Notice{Level: NoticeError, Message: describe(node, event, err)}
}

func describe(node Node, event string, err error) string {
	subject := "page"
	if node != nil {
		subject = node.String()
	}
	if err != nil {
		return fmt.Sprintf("%s %s: %v", subject, event, err)
	}
	return subject + " " + event
}
