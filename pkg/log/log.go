// Package log provides the structured logger shared by every gbcore
// component. It wraps logrus so that fatal and warning conditions
// described in spec §7 carry consistent fields (component, addr, pc)
// regardless of which subsystem raised them.
package log

import "github.com/sirupsen/logrus"

// New returns a logger pre-configured the way the core expects: plain
// text, no timestamps (the host is expected to add its own if needed).
func New() *logrus.Logger {
	l := logrus.New()
	l.Level = logrus.InfoLevel
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
	}
	return l
}

// Component returns a logger entry tagged with the owning component's
// name, used by fatal/warning log lines across the core.
func Component(l *logrus.Logger, name string) *logrus.Entry {
	return l.WithField("component", name)
}
