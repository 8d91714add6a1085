package scan

import (
	"context"

	"github.com/lockwhz/leakcheck/models"
)

// Scanner executa uma verificação completa e devolve o relatório.
// Um erro devolvido é sempre falha de pré-condição: segredos encontrados
// aparecem no relatório, não no erro.
type Scanner interface {
	Run(ctx context.Context) (*models.Report, error)
}
