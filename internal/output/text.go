package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/lockwhz/leakcheck/models"
)

// Remediation é impressa literalmente quando o veredito falha.
const Remediation = `Next steps:
  1. Rotate every exposed credential first. Rewriting history does not revoke a key.
  2. Rewrite history with one of:
       bfg --replace-text replacements.txt
       git filter-repo --replace-text replacements.txt
     then expire reflogs and compact:
       git reflog expire --expire=now --all && git gc --prune=now --aggressive
  3. Force-push all branches and tags, and ask collaborators to re-clone.
  4. Add the local secrets file to .gitignore and run this check again.
`

// TextWriter escreve o relatório legível para o terminal. As linhas
// [PASS]/[FAIL]/[WARN] e o banner RESULT são estáveis para scripts.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *models.Report) error {
	ew := &errWriter{w: w}

	ew.printf("Credential scan: %s\n", report.Repository)
	ew.printf("%d files, %d commits\n", report.FilesScanned, report.CommitsScanned)
	ew.println(strings.Repeat("─", 60))

	for _, r := range report.Results {
		if r.Passed() {
			ew.printf("[PASS] %s\n", r.RuleName)
			continue
		}
		ew.printf("[FAIL] %s (%s)\n", r.RuleName, where(r))
	}

	ew.println("")
	if len(report.SecretsFiles) == 0 {
		ew.printf("[PASS] No %s files in history\n", report.SecretsFileName)
	} else {
		ew.printf("[FAIL] %s files found in history:\n", report.SecretsFileName)
		for _, f := range report.SecretsFiles {
			ew.printf("         %s (commit %s)\n", f.Path, shortHash(f.Commit))
		}
	}

	if report.IgnoreAdvisory != "" {
		ew.printf("[WARN] %s\n", report.IgnoreAdvisory)
	}

	ew.println("")
	ew.println(strings.Repeat("═", 60))
	if report.Clean {
		ew.println("  RESULT: CLEAN. No credentials found in tree or history.")
		ew.println(strings.Repeat("═", 60))
		return ew.err
	}
	ew.println("  RESULT: ISSUES FOUND. The repository is not clean.")
	ew.println(strings.Repeat("═", 60))
	ew.println("")
	ew.printf("%s", Remediation)
	return ew.err
}

func where(r models.ScanResult) string {
	var parts []string
	if r.FoundInTree {
		parts = append(parts, "current files")
	}
	if r.FoundInHistory {
		parts = append(parts, "git history")
	}
	return "found in " + strings.Join(parts, " and ")
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
