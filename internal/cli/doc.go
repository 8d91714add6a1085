// Package cli monta o comando cobra do binário leakcheck.
//
// O comando raiz lê a configuração (ambiente, arquivo YAML e flags), abre ou
// clona o repositório, executa o catálogo de regras sobre a árvore de
// trabalho e todo o histórico, entrega o relatório aos destinos habilitados
// e devolve um código de saída determinístico para uso em CI.
package cli
