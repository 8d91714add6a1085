package scan

import (
	"errors"
	"fmt"
	"os"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// excludeFunc compila padrões no formato gitignore em um predicado de caminho.
func excludeFunc(patterns []string) func(string) bool {
	if len(patterns) == 0 {
		return nil
	}
	m := ignore.CompileIgnoreLines(patterns...)
	return m.MatchesPath
}

// ignoreAdvisory devolve o aviso sobre o arquivo de ignore, ou "" quando ele
// existe e exclui o arquivo de segredos. Só erros de leitura diferentes de
// "não existe" são devolvidos como erro.
func ignoreAdvisory(read func(string) ([]byte, error), ignoreFile, secretsFile string) (string, error) {
	content, err := read(ignoreFile)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Sprintf("%s not found: create one that excludes %s", ignoreFile, secretsFile), nil
	}
	if err != nil {
		return "", err
	}
	lines := strings.Split(string(content), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	m := ignore.CompileIgnoreLines(lines...)
	if !m.MatchesPath(secretsFile) {
		return fmt.Sprintf("%s does not exclude %s: add a line with %s", ignoreFile, secretsFile, secretsFile), nil
	}
	return "", nil
}
