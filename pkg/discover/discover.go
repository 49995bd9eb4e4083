// Package discover finds well-known system log files.
package discover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// CommonPaths are checked in order.
var CommonPaths = []string{
	"/var/log/auth.log",
	"/var/log/secure",
	"/var/log/syslog",
	"/var/log/messages",
	"/var/log/system.log",
	"/var/log/kern.log",
	"/var/log/dmesg",
	"/var/log/apache2/access.log",
	"/var/log/apache2/error.log",
	"/var/log/httpd/access_log",
	"/var/log/httpd/error_log",
	"/var/log/nginx/access.log",
	"/var/log/nginx/error.log",
	"/var/log/mysql/error.log",
	"/var/log/mysql/mysql.log",
	"/var/log/postgresql/postgresql.log",
	"/var/log/mail.log",
	"/var/log/maillog",
	"/var/log/cron",
	"/var/log/daemon.log",
	"/var/log/user.log",
	"/var/log/boot.log",
}

// CommonPatterns catch service logs with versioned or per-site names.
var CommonPatterns = []string{
	"/var/log/{apache2,httpd,nginx}/*{.log,_log}",
	"/var/log/{mysql,postgresql}/*.log",
}

// Log is a discovered log file.
type Log struct {
	Path     string
	Type     string
	Size     int64
	ModTime  time.Time
	Readable bool
}

// SizeMB returns the size in megabytes rounded to two decimals.
func (l Log) SizeMB() float64 {
	mb := float64(l.Size) / (1024 * 1024)
	return float64(int64(mb*100+0.5)) / 100
}

// classes maps path fragments to log types. The first match wins.
var classes = []struct {
	fragments []string
	name      string
}{
	{[]string{"auth"}, "Authentication"},
	{[]string{"syslog", "messages"}, "System"},
	{[]string{"kern"}, "Kernel"},
	{[]string{"apache", "httpd"}, "Apache Web Server"},
	{[]string{"nginx"}, "Nginx Web Server"},
	{[]string{"mysql"}, "MySQL Database"},
	{[]string{"postgres"}, "PostgreSQL Database"},
	{[]string{"mail"}, "Mail Server"},
	{[]string{"cron"}, "Cron Jobs"},
}

// Classify names the kind of log at p.
func Classify(p string) string {
	lower := strings.ToLower(p)
	for _, c := range classes {
		for _, f := range c.fragments {
			if strings.Contains(lower, f) {
				return c.name
			}
		}
	}
	return "Unknown"
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithFS scans fsys instead of the real root. Absolute candidate paths are
// resolved relative to fsys.
func WithFS(fsys fs.FS) Option {
	return func(s *Scanner) {
		s.fsys = fsys
	}
}

// WithCandidates replaces the candidate paths and glob patterns.
func WithCandidates(paths, patterns []string) Option {
	return func(s *Scanner) {
		s.paths = paths
		s.patterns = patterns
	}
}

// Scanner looks for log files.
type Scanner struct {
	fsys     fs.FS
	paths    []string
	patterns []string
}

// NewScanner creates a scanner over the root filesystem.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		fsys:     os.DirFS("/"),
		paths:    CommonPaths,
		patterns: CommonPatterns,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan returns the candidates that exist as regular files, fixed paths
// first in their listed order, then glob matches sorted by path.
func (s *Scanner) Scan(ctx context.Context) ([]Log, error) {
	var logs []Log
	seen := make(map[string]bool)

	add := func(name string) {
		if seen[name] {
			return
		}
		if l, ok := s.inspect(name); ok {
			seen[name] = true
			logs = append(logs, l)
		}
	}

	for _, p := range s.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		add(relative(p))
	}

	var matches []string
	for _, pattern := range s.patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := doublestar.Glob(s.fsys, relative(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", pattern, err)
		}
		matches = append(matches, found...)
	}
	slices.Sort(matches)
	for _, m := range matches {
		add(m)
	}

	return logs, nil
}

// inspect stats name and checks that it can be opened.
func (s *Scanner) inspect(name string) (Log, bool) {
	info, err := fs.Stat(s.fsys, name)
	if err != nil || !info.Mode().IsRegular() {
		return Log{}, false
	}

	l := Log{
		Path:    "/" + name,
		Type:    Classify(name),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}

	f, err := s.fsys.Open(name)
	switch {
	case err == nil:
		l.Readable = true
		_ = f.Close()
	case errors.Is(err, fs.ErrPermission):
		l.Readable = false
	default:
		return Log{}, false
	}
	return l, true
}

// relative turns an absolute slash path into an fs.FS name.
func relative(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}
