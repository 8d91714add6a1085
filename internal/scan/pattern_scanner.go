package scan

import (
	"context"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/google/uuid"

	"github.com/lockwhz/leakcheck/config"
	"github.com/lockwhz/leakcheck/internal/git"
	"github.com/lockwhz/leakcheck/internal/logger"
	"github.com/lockwhz/leakcheck/internal/rules"
	"github.com/lockwhz/leakcheck/models"
)

// PatternScanner aplica o catálogo de regras à árvore de trabalho e ao
// histórico completo do repositório. Nunca escreve no repositório.
type PatternScanner struct {
	Repo        *git.Repo
	Rules       []rules.Rule
	Excludes    []string
	SecretsFile string
	IgnoreFile  string

	// Repository é o nome exibido no relatório; vazio usa o caminho local.
	Repository string
}

// NewPatternScanner monta o scanner com o catálogo fixo e os nomes da config.
func NewPatternScanner(repo *git.Repo, cfg config.Config) *PatternScanner {
	return &PatternScanner{
		Repo:        repo,
		Rules:       rules.Catalog(),
		Excludes:    cfg.Excludes,
		SecretsFile: cfg.SecretsFileName,
		IgnoreFile:  cfg.IgnoreFileName,
	}
}

// Snapshot é a visão somente leitura usada por todas as regras de uma execução.
type Snapshot struct {
	Files   []git.File
	History []git.CommitPatch
}

// Snapshot lê histórico e árvore uma única vez. Qualquer falha aqui é
// pré-condição: sem histórico legível não há verificação.
func (s *PatternScanner) Snapshot(ctx context.Context) (*Snapshot, error) {
	history, err := s.Repo.History(ctx)
	if err != nil {
		return nil, precondition("histórico", err)
	}
	files, err := s.Repo.WorktreeFiles(excludeFunc(s.Excludes))
	if err != nil {
		return nil, precondition("árvore de trabalho", err)
	}
	return &Snapshot{Files: files, History: history}, nil
}

// Check avalia uma regra contra a árvore e o histórico. Ausência de
// ocorrência é o caso de sucesso.
func Check(rule rules.Rule, snap *Snapshot) models.ScanResult {
	res := models.ScanResult{RuleName: rule.Name, Pattern: rule.Pattern.String()}
	for _, f := range snap.Files {
		if rule.Match(f.Content) {
			res.FoundInTree = true
			res.Matches = append(res.Matches, models.Match{Location: models.LocationTree, Path: f.Path})
		}
	}
	for _, cp := range snap.History {
		if rule.Match(cp.Text) {
			res.FoundInHistory = true
			res.Matches = append(res.Matches, models.Match{Location: models.LocationHistory, Commit: cp.Hash})
		}
	}
	return res
}

// SecretsFilesInHistory lista cada (commit, caminho) cujo nome termina com
// o arquivo de segredos, independente do conteúdo.
func SecretsFilesInHistory(history []git.CommitPatch, secretsFile string) []models.HistoricalFile {
	var out []models.HistoricalFile
	for _, cp := range history {
		seen := make(map[string]struct{})
		for _, f := range cp.Files {
			if !strings.HasSuffix(f, secretsFile) {
				continue
			}
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, models.HistoricalFile{Commit: cp.Hash, Path: f})
		}
	}
	return out
}

// Run executa todas as regras sem interromper na primeira falha.
func (s *PatternScanner) Run(ctx context.Context) (*models.Report, error) {
	start := time.Now()
	defer logger.Trace("PatternScanner.Run", start)
	log := logger.GetSugaredLogger()

	report := &models.Report{
		ScanID:          uuid.New(),
		Repository:      s.repositoryName(),
		StartedAt:       start.UTC(),
		SecretsFileName: s.SecretsFile,
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	report.CommitsScanned = len(snap.History)
	report.FilesScanned = len(snap.Files)
	log.Infof("PatternScanner: %d arquivos (%s) e %d commits (%s) carregados",
		len(snap.Files), units.HumanSize(float64(treeBytes(snap.Files))),
		len(snap.History), units.HumanSize(float64(historyBytes(snap.History))))

	for _, rule := range s.Rules {
		res := Check(rule, snap)
		for _, m := range res.Matches {
			log.Debugw("ocorrência encontrada", "rule", rule.Name, "location", m.Location, "path", m.Path, "commit", m.Commit)
		}
		report.Results = append(report.Results, res)
	}

	report.SecretsFiles = SecretsFilesInHistory(snap.History, s.SecretsFile)

	advisory, err := ignoreAdvisory(s.Repo.ReadFile, s.IgnoreFile, s.SecretsFile)
	if err != nil {
		return nil, precondition("arquivo de ignore", err)
	}
	report.IgnoreAdvisory = advisory

	report.Clean = report.Verdict()
	report.FinishedAt = time.Now().UTC()
	log.Infof("PatternScanner: scan %s concluído, limpo=%t, %d ocorrências %v",
		report.ScanID, report.Clean, len(FlattenMatches(report.Results)), CountByLocation(report.Results))
	return report, nil
}

func (s *PatternScanner) repositoryName() string {
	if s.Repository != "" {
		return s.Repository
	}
	return s.Repo.Path
}

func treeBytes(files []git.File) int {
	n := 0
	for _, f := range files {
		n += len(f.Content)
	}
	return n
}

func historyBytes(history []git.CommitPatch) int {
	n := 0
	for _, cp := range history {
		n += len(cp.Text)
	}
	return n
}
