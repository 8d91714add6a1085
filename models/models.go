package models

import (
	"time"

	"github.com/google/uuid"
)

// Onde um padrão foi encontrado.
const (
	LocationTree    = "tree"
	LocationHistory = "history"
)

// Match aponta a ocorrência sem nunca carregar o segredo em si.
// Path é preenchido para a árvore; Commit para o histórico.
type Match struct {
	Location string `json:"location"`
	Path     string `json:"path,omitempty"`
	Commit   string `json:"commit,omitempty"`
}

// ScanResult é o resultado de uma regra do catálogo.
type ScanResult struct {
	RuleName       string  `json:"rule"`
	Pattern        string  `json:"pattern"`
	FoundInTree    bool    `json:"found_in_tree"`
	FoundInHistory bool    `json:"found_in_history"`
	Matches        []Match `json:"matches,omitempty"`
}

// Passed indica que a regra não casou em nenhum lugar.
func (r ScanResult) Passed() bool {
	return !r.FoundInTree && !r.FoundInHistory
}

// HistoricalFile é um arquivo de segredos locais tocado por algum commit.
type HistoricalFile struct {
	Commit string `json:"commit"`
	Path   string `json:"path"`
}

type Report struct {
	ScanID          uuid.UUID        `json:"scan_id"`
	Repository      string           `json:"repository"`
	StartedAt       time.Time        `json:"started_at"`
	FinishedAt      time.Time        `json:"finished_at"`
	CommitsScanned  int              `json:"commits_scanned"`
	FilesScanned    int              `json:"files_scanned"`
	Results         []ScanResult     `json:"results"`
	SecretsFileName string           `json:"secrets_file_name"`
	SecretsFiles    []HistoricalFile `json:"secrets_files_in_history,omitempty"`
	IgnoreAdvisory  string           `json:"ignore_advisory,omitempty"`
	Clean           bool             `json:"clean"`
}

// FailedRules devolve os nomes das regras reprovadas, na ordem do catálogo.
func (r *Report) FailedRules() []string {
	var out []string
	for _, res := range r.Results {
		if !res.Passed() {
			out = append(out, res.RuleName)
		}
	}
	return out
}

// Verdict calcula o status agregado: todas as regras aprovadas e nenhum
// arquivo de segredos no histórico. O aviso do arquivo de ignore não conta.
func (r *Report) Verdict() bool {
	return len(r.FailedRules()) == 0 && len(r.SecretsFiles) == 0
}
