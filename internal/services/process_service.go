package services

import (
	"context"

	"github.com/lockwhz/leakcheck/internal/logger"
	"github.com/lockwhz/leakcheck/internal/scan"
	"github.com/lockwhz/leakcheck/models"
)

// ReportStore persiste relatórios concluídos.
type ReportStore interface {
	SaveReport(ctx context.Context, report *models.Report) error
}

// Notifier avisa sistemas externos sobre o veredito.
type Notifier interface {
	Notify(ctx context.Context, report *models.Report) error
}

// ProcessService executa o scan e entrega o relatório aos destinos
// habilitados. Store e Notifier são opcionais.
type ProcessService struct {
	Scanner  scan.Scanner
	Store    ReportStore
	Notifier Notifier
}

// Process devolve o relatório ou o erro de pré-condição do scanner. Falhas
// dos destinos são registradas no log e não alteram o resultado.
func (p *ProcessService) Process(ctx context.Context) (*models.Report, error) {
	defer logger.TraceAuto()()
	log := logger.GetSugaredLogger()

	report, err := p.Scanner.Run(ctx)
	if err != nil {
		log.Errorf("ProcessService: verificação abortada: %v", err)
		return nil, err
	}

	if p.Store != nil {
		if err := p.Store.SaveReport(ctx, report); err != nil {
			log.Errorf("ProcessService: erro ao gravar relatório %s: %v", report.ScanID, err)
		}
	}
	if p.Notifier != nil {
		if err := p.Notifier.Notify(ctx, report); err != nil {
			log.Errorf("ProcessService: erro ao publicar veredito %s: %v", report.ScanID, err)
		}
	}

	return report, nil
}
