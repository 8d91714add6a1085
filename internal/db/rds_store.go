package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lockwhz/leakcheck/internal/logger"
	"github.com/lockwhz/leakcheck/models"
)

const (
	sqlInsertScan = `INSERT INTO leakcheck_scans (
		scan_id, repository, started_at, finished_at, commits_scanned, files_scanned, clean, ignore_advisory
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8) ON CONFLICT (scan_id) DO NOTHING`

	sqlInsertRule = `INSERT INTO leakcheck_rule_results (
		id, scan_id, rule_name, found_in_tree, found_in_history, match_count
	) VALUES ($1,$2,$3,$4,$5,$6) ON CONFLICT (scan_id, rule_name) DO NOTHING`

	sqlInsertSecretsFile = `INSERT INTO leakcheck_secrets_files (
		id, scan_id, commit_hash, path
	) VALUES ($1,$2,$3,$4) ON CONFLICT (scan_id, commit_hash, path) DO NOTHING`
)

// SaveReport grava o scan, os resultados por regra e os arquivos de segredos
// do histórico em uma única transação. Reenviar o mesmo relatório não duplica.
func (d *Database) SaveReport(ctx context.Context, report *models.Report) error {
	start := time.Now()
	defer logger.Trace("SaveReport", start)

	tx, err := d.conn.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx, sqlInsertScan,
		report.ScanID,
		report.Repository,
		report.StartedAt,
		report.FinishedAt,
		report.CommitsScanned,
		report.FilesScanned,
		report.Clean,
		report.IgnoreAdvisory,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("insert scan: %w", err)
	}

	if err := insertRules(ctx, tx, report); err != nil {
		tx.Rollback()
		return err
	}
	if err := insertSecretsFiles(ctx, tx, report); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertRules(ctx context.Context, tx *sql.Tx, report *models.Report) error {
	if len(report.Results) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, sqlInsertRule)
	if err != nil {
		return fmt.Errorf("prepare rules: %w", err)
	}
	defer stmt.Close()

	for _, r := range report.Results {
		if _, err := stmt.ExecContext(ctx,
			uuid.New(),
			report.ScanID,
			r.RuleName,
			r.FoundInTree,
			r.FoundInHistory,
			len(r.Matches),
		); err != nil {
			return fmt.Errorf("insert rule %s: %w", r.RuleName, err)
		}
	}
	return nil
}

func insertSecretsFiles(ctx context.Context, tx *sql.Tx, report *models.Report) error {
	if len(report.SecretsFiles) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, sqlInsertSecretsFile)
	if err != nil {
		return fmt.Errorf("prepare secrets files: %w", err)
	}
	defer stmt.Close()

	for _, f := range report.SecretsFiles {
		if _, err := stmt.ExecContext(ctx, uuid.New(), report.ScanID, f.Commit, f.Path); err != nil {
			return fmt.Errorf("insert secrets file %s: %w", f.Path, err)
		}
	}
	return nil
}
