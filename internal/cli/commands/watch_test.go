package commands

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunScan_Watch(t *testing.T) {
	dir := isolate(t)
	logPath := writeTempFile(t, dir, "auth.log", testLog)
	rulesPath := writeTempFile(t, dir, "rules.json", testRules)
	htmlPath := filepath.Join(dir, "report.html")
	textPath := filepath.Join(dir, "report.txt")

	ctx, cancel := context.WithTimeout(context.Background(), 600*time.Millisecond)
	defer cancel()

	go func() {
		time.Sleep(150 * time.Millisecond)
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return
		}
		defer f.Close()
		_, _ = f.WriteString("Jan 10 10:00:09 host kernel: app[42]: segfault at 0\n")
	}()

	cmd, stdout, stderr := newScanCommand()
	cmd.SetArgs([]string{
		"-l", logPath, "-r", rulesPath, "--watch", "--interval", "0.02",
		"--html-output", htmlPath, "-o", textPath,
	})

	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	out := stdout.String()
	want := []string{
		"EventSieve - Real-time Log Monitoring Started",
		"Check interval: 20ms",
		"3 rules loaded.",
		"New suspicious activities detected:",
		"Line 2: Failed login attempt (Severity: high)",
		"Line 5: Process crashed (Severity: critical)",
		"HTML report updated.",
		"Monitoring stopped.",
		"Generating final reports...",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("Output missing %q:\n%s", w, out)
		}
	}

	text, err := os.ReadFile(textPath)
	if err != nil {
		t.Fatalf("Final text report not written: %v", err)
	}
	if !strings.HasPrefix(string(text), "Total 3 suspicious activities found:") {
		t.Errorf("Final text report = %q", text)
	}

	html, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("HTML report not written: %v", err)
	}
	if !strings.Contains(string(html), "Process crashed") {
		t.Error("HTML report missing the appended activity")
	}

	if !strings.Contains(stderr.String(), "Report saved: "+textPath) {
		t.Errorf("Missing saved notice:\n%s", stderr.String())
	}
}

func TestRunScan_WatchWithoutReports(t *testing.T) {
	dir := isolate(t)
	logPath := writeTempFile(t, dir, "auth.log", "nothing to see\n")
	rulesPath := writeTempFile(t, dir, "rules.json", testRules)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	cmd, stdout, _ := newScanCommand()
	cmd.SetArgs([]string{"-l", logPath, "-r", rulesPath, "--watch", "--interval", "0.02", "--notify"})

	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "Monitoring stopped.") {
		t.Errorf("Output missing stop notice:\n%s", out)
	}
	if strings.Contains(out, "New suspicious activities detected") {
		t.Errorf("Unexpected activities:\n%s", out)
	}
	if strings.Contains(out, "HTML report updated.") {
		t.Errorf("No HTML report was requested:\n%s", out)
	}
}

func TestMetricsEndpointDuringWatch(t *testing.T) {
	dir := isolate(t)
	logPath := writeTempFile(t, dir, "auth.log", testLog)
	rulesPath := writeTempFile(t, dir, "rules.json", testRules)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pr, pw := io.Pipe()
	cmd, _, _ := newScanCommand()
	cmd.SetOut(pw)
	cmd.SetArgs([]string{"-l", logPath, "-r", rulesPath, "--watch", "--interval", "0.02", "--metrics-addr", "127.0.0.1:0"})

	done := make(chan error, 1)
	go func() {
		done <- cmd.ExecuteContext(ctx)
		_ = pw.Close()
	}()

	addr := make(chan string, 1)
	go func() {
		buf := make([]byte, 4096)
		var seen strings.Builder
		sent := false
		for {
			n, err := pr.Read(buf)
			seen.Write(buf[:n])
			if !sent {
				if _, rest, ok := strings.Cut(seen.String(), "Metrics available at "); ok {
					if url, _, ok := strings.Cut(rest, "\n"); ok {
						addr <- url
						sent = true
					}
				}
			}
			if err != nil {
				if !sent {
					close(addr)
				}
				return
			}
		}
	}()

	url, ok := <-addr
	if !ok {
		t.Fatal("metrics address never printed")
	}
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	for _, w := range []string{`eventsieve_polls_total{state="reading"} 1`, `eventsieve_new_activities_total{severity="high"} 1`} {
		if !strings.Contains(string(body), w) {
			t.Errorf("metrics missing %q", w)
		}
	}
}
