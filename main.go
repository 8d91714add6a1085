// leakcheck procura credenciais conhecidas na árvore de trabalho e em todo o
// histórico git (todas as branches) de um repositório.
//
// Uso:
//
//	leakcheck                         # verifica o diretório atual
//	leakcheck --path ./repo           # verifica outro repositório
//	leakcheck --format json           # relatório JSON em stdout
//	leakcheck --clone-url <url>       # clona e verifica um repositório remoto
//
// Saída 0: limpo. Saída 1: credenciais encontradas, .env no histórico ou
// falha de pré-condição. Saída 2: uso incorreto.
package main

import (
	"os"

	"github.com/lockwhz/leakcheck/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
