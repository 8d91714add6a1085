// Package output formata o relatório do scan para o terminal ou para ferramentas.
package output

import (
	"fmt"
	"io"

	"github.com/lockwhz/leakcheck/models"
)

// Writer escreve o relatório em um formato.
type Writer interface {
	Write(w io.Writer, report *models.Report) error
}

// GetWriter devolve o Writer do formato pedido.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("formato de saída não suportado: %s", format)
	}
}
